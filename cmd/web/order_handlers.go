package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/raolivei/iphone-export/internal/api"
	"github.com/raolivei/iphone-export/internal/format"
	mw "github.com/raolivei/iphone-export/internal/middleware"
)

// OrderItemView is one purchased line on the confirmation page.
type OrderItemView struct {
	Name      string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

// OrderView backs the order confirmation page.
type OrderView struct {
	Number        string
	Status        string
	StatusTone    string
	PlacedOn      string
	PaymentMethod string
	CustomerName  string
	CustomerEmail string
	AddressLines  []string
	Items         []OrderItemView
	Subtotal      string
	Shipping      string
	Total         string
	Tracking      string
}

// statusTone maps an order status onto a badge tone used by templates.
func statusTone(status string) string {
	switch status {
	case "paid", "delivered":
		return "success"
	case "shipped":
		return "info"
	case "cancelled":
		return "error"
	default:
		return "neutral"
	}
}

func buildOrderView(o api.Order, lang string) OrderView {
	view := OrderView{
		Number:        o.OrderNumber,
		Status:        o.Status,
		StatusTone:    statusTone(o.Status),
		PlacedOn:      format.DateString(o.CreatedAt, lang),
		PaymentMethod: o.PaymentMethod,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Subtotal:      format.CAD(o.SubtotalCAD, lang),
		Shipping:      format.CAD(o.ShippingCostCAD, lang),
		Total:         format.CAD(o.TotalCAD, lang),
		Tracking:      o.TrackingNumber,
	}
	cityLine := strings.TrimSpace(strings.Trim(o.ShippingCity+", "+o.ShippingState+" "+o.ShippingPostalCode, ", "))
	for _, line := range []string{o.ShippingAddressLine1, o.ShippingAddressLine2, cityLine, o.ShippingCountry} {
		if line != "" {
			view.AddressLines = append(view.AddressLines, line)
		}
	}
	for _, item := range o.Items {
		view.Items = append(view.Items, OrderItemView{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: format.CAD(item.PriceCAD, lang),
			Subtotal:  format.CAD(item.SubtotalCAD, lang),
		})
	}
	return view
}

// OrderHandler renders the public confirmation page for a placed order.
func OrderHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	orderNumber := chi.URLParam(r, "orderNumber")

	order, err := apiClient.GetOrderByNumber(r.Context(), orderNumber)
	if errors.Is(err, api.ErrNotFound) {
		NotFoundHandler(w, r)
		return
	}
	if err != nil {
		logger.Error("get order", zap.String("order_number", orderNumber), zap.Error(err))
		http.Error(w, "backend unavailable", http.StatusBadGateway)
		return
	}

	vm := newPageData(r, i18nOrDefault(lang, "order.title", "Order confirmed"))
	vm.Order = buildOrderView(order, lang)
	renderPage(w, r, "order", vm)
}
