package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/raolivei/iphone-export/internal/api"
	"github.com/raolivei/iphone-export/internal/format"
	mw "github.com/raolivei/iphone-export/internal/middleware"
)

// orderStatuses are the transitions offered in the admin order table.
var orderStatuses = []string{"pending", "paid", "processing", "shipped", "delivered", "cancelled"}

// AdminLoginView backs the login form.
type AdminLoginView struct {
	Username string
	Error    string
}

// DashboardView backs the admin dashboard.
type DashboardView struct {
	TotalProducts    int
	TotalOrders      int
	PendingOrders    int
	PaidOrders       int
	LowStockProducts int
	TotalRevenue     string
}

// AdminOrderRow is one row of the admin order table.
type AdminOrderRow struct {
	ID         int64
	Number     string
	Customer   string
	Email      string
	Total      string
	Status     string
	StatusTone string
	Tracking   string
	PlacedOn   string
}

// AdminOrdersView backs the admin order table.
type AdminOrdersView struct {
	Rows     []AdminOrderRow
	Statuses []string
}

// AdminLoginHandler renders the login form.
func AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	if mw.GetSession(r).AdminToken != "" {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	lang := mw.Lang(r)
	vm := newPageData(r, i18nOrDefault(lang, "admin.login.title", "Admin sign-in"))
	vm.AdminLogin = AdminLoginView{}
	renderPage(w, r, "admin_login", vm)
}

// AdminLoginSubmitHandler exchanges credentials for a backend token and
// stores it in the session.
func AdminLoginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	token, err := apiClient.Login(r.Context(), username, password)
	if err != nil {
		msg := i18nOrDefault(lang, "admin.login.failed", "Invalid username or password.")
		if !errors.Is(err, api.ErrUnauthorized) {
			logger.Error("admin login", zap.Error(err))
			msg = i18nOrDefault(lang, "admin.login.unavailable", "Sign-in is temporarily unavailable.")
		}
		vm := newPageData(r, i18nOrDefault(lang, "admin.login.title", "Admin sign-in"))
		vm.AdminLogin = AdminLoginView{Username: username, Error: msg}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		renderPage(w, r, "admin_login", vm)
		return
	}

	s := mw.GetSession(r)
	s.AdminToken = token
	// new session ID on privilege change
	s.RegenerateID()

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// AdminLogoutHandler drops the token and returns to the login form.
func AdminLogoutHandler(w http.ResponseWriter, r *http.Request) {
	mw.ClearAdminToken(r)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// AdminDashboardHandler renders aggregate stats from the backend.
func AdminDashboardHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	s := mw.GetSession(r)

	stats, err := apiClient.DashboardStats(r.Context(), s.AdminToken)
	if err != nil {
		handleAdminAPIError(w, r, err, "dashboard stats")
		return
	}

	vm := newPageData(r, i18nOrDefault(lang, "admin.dashboard.title", "Dashboard"))
	vm.Dashboard = DashboardView{
		TotalProducts:    stats.TotalProducts,
		TotalOrders:      stats.TotalOrders,
		PendingOrders:    stats.PendingOrders,
		PaidOrders:       stats.PaidOrders,
		LowStockProducts: stats.LowStockProducts,
		TotalRevenue:     format.CAD(stats.TotalRevenueCAD, lang),
	}
	renderPage(w, r, "admin_dashboard", vm)
}

// AdminOrdersHandler renders the full order table.
func AdminOrdersHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	s := mw.GetSession(r)

	orders, err := apiClient.ListOrders(r.Context(), s.AdminToken)
	if err != nil {
		handleAdminAPIError(w, r, err, "list orders")
		return
	}

	view := AdminOrdersView{Statuses: orderStatuses}
	for _, o := range orders {
		view.Rows = append(view.Rows, AdminOrderRow{
			ID:         o.ID,
			Number:     o.OrderNumber,
			Customer:   o.CustomerName,
			Email:      o.CustomerEmail,
			Total:      format.CAD(o.TotalCAD, lang),
			Status:     o.Status,
			StatusTone: statusTone(o.Status),
			Tracking:   o.TrackingNumber,
			PlacedOn:   format.DateString(o.CreatedAt, lang),
		})
	}

	vm := newPageData(r, i18nOrDefault(lang, "admin.orders.title", "Orders"))
	vm.Orders = view
	renderPage(w, r, "admin_orders", vm)
}

// AdminOrderUpdateHandler applies a status transition, optionally with a
// tracking number, then returns to the order table.
func AdminOrderUpdateHandler(w http.ResponseWriter, r *http.Request) {
	s := mw.GetSession(r)
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || orderID <= 0 {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	status := r.PostFormValue("status")
	if !validOrderStatus(status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	upd := api.OrderUpdate{
		Status:         status,
		TrackingNumber: strings.TrimSpace(r.PostFormValue("tracking_number")),
	}

	if _, err := apiClient.UpdateOrder(r.Context(), s.AdminToken, orderID, upd); err != nil {
		handleAdminAPIError(w, r, err, "update order")
		return
	}

	http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
}

func validOrderStatus(status string) bool {
	for _, v := range orderStatuses {
		if v == status {
			return true
		}
	}
	return false
}

// handleAdminAPIError maps backend failures on admin calls. A 401 means the
// token expired: the session is cleaned up and the visitor sent back to the
// login form.
func handleAdminAPIError(w http.ResponseWriter, r *http.Request, err error, op string) {
	if errors.Is(err, api.ErrUnauthorized) {
		mw.ClearAdminToken(r)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	logger.Error("admin "+op, zap.Error(err))
	http.Error(w, "backend unavailable", http.StatusBadGateway)
}
