package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raolivei/iphone-export/internal/api"
	mw "github.com/raolivei/iphone-export/internal/middleware"
)

// CheckoutForm holds submitted values so validation failures can re-render
// the form without losing input.
type CheckoutForm struct {
	Name          string
	Email         string
	Phone         string
	AddressLine1  string
	AddressLine2  string
	City          string
	State         string
	PostalCode    string
	Country       string
	PaymentMethod string
}

// CheckoutView backs the checkout page.
type CheckoutView struct {
	Cart   CartView
	Form   CheckoutForm
	Token  string
	Errors []string
}

// CheckoutHandler renders the checkout form. Every render mints a fresh
// one-time token; submitting a stale form is rejected instead of creating a
// second order.
func CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	s := mw.GetSession(r)
	store := s.CartStore()
	if store.Empty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	s.CheckoutToken = uuid.NewString()
	s.MarkDirty()

	vm := newPageData(r, i18nOrDefault(lang, "checkout.title", "Checkout"))
	if r.URL.Query().Get("notice") == "resubmitted" {
		vm.Notice = i18nOrDefault(lang, "checkout.resubmitted", "That order form was already submitted. Please review your cart and try again.")
		vm.NoticeTone = "error"
	}
	vm.Checkout = CheckoutView{
		Cart:  buildCartView(store, lang),
		Form:  CheckoutForm{Country: "Canada", PaymentMethod: "stripe"},
		Token: s.CheckoutToken,
	}
	renderPage(w, r, "checkout", vm)
}

// CheckoutSubmitHandler validates the form, submits the cart snapshot to the
// backend, then clears the cart and redirects to the confirmation page.
func CheckoutSubmitHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	s := mw.GetSession(r)
	store := s.CartStore()
	if store.Empty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	// Consume the token before calling the backend so a double-click or
	// browser re-POST cannot create a second order.
	token := strings.TrimSpace(r.PostFormValue("checkout_token"))
	if token == "" || token != s.CheckoutToken {
		http.Redirect(w, r, "/checkout?notice=resubmitted", http.StatusSeeOther)
		return
	}
	s.CheckoutToken = ""
	s.MarkDirty()

	form := CheckoutForm{
		Name:          strings.TrimSpace(r.PostFormValue("name")),
		Email:         strings.TrimSpace(r.PostFormValue("email")),
		Phone:         strings.TrimSpace(r.PostFormValue("phone")),
		AddressLine1:  strings.TrimSpace(r.PostFormValue("address_line1")),
		AddressLine2:  strings.TrimSpace(r.PostFormValue("address_line2")),
		City:          strings.TrimSpace(r.PostFormValue("city")),
		State:         strings.TrimSpace(r.PostFormValue("state")),
		PostalCode:    strings.TrimSpace(r.PostFormValue("postal_code")),
		Country:       strings.TrimSpace(r.PostFormValue("country")),
		PaymentMethod: r.PostFormValue("payment_method"),
	}

	errs := validateCheckoutForm(lang, form)
	if len(errs) > 0 {
		renderCheckoutErrors(w, r, lang, form, errs)
		return
	}

	req := api.CheckoutRequest{
		ShippingAddress: api.ShippingAddress{
			Name:         form.Name,
			Email:        form.Email,
			Phone:        form.Phone,
			AddressLine1: form.AddressLine1,
			AddressLine2: form.AddressLine2,
			City:         form.City,
			State:        form.State,
			PostalCode:   form.PostalCode,
			Country:      form.Country,
		},
		PaymentMethod:  form.PaymentMethod,
		IdempotencyKey: token,
	}
	for _, line := range store.Lines() {
		req.Items = append(req.Items, api.CheckoutItem{ProductID: line.Product.ID, Quantity: line.Quantity})
	}

	order, err := apiClient.CreateCheckout(r.Context(), req)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.Status < 500 {
			logger.Warn("checkout rejected", zap.Int("status", statusErr.Status), zap.String("body", statusErr.Body))
			renderCheckoutErrors(w, r, lang, form, []string{
				i18nOrDefault(lang, "checkout.rejected", "The order could not be placed. Please review your cart; stock may have changed."),
			})
			return
		}
		logger.Error("checkout submit", zap.Error(err))
		renderCheckoutErrors(w, r, lang, form, []string{
			i18nOrDefault(lang, "checkout.unavailable", "Checkout is temporarily unavailable. Your cart is untouched; please try again."),
		})
		return
	}

	store.Clear()
	s.SaveCart(store)

	http.Redirect(w, r, "/order/"+order.OrderNumber, http.StatusSeeOther)
}

func validateCheckoutForm(lang string, form CheckoutForm) []string {
	var errs []string
	missing := func(key, def string) {
		errs = append(errs, i18nOrDefault(lang, key, def))
	}
	if form.Name == "" {
		missing("checkout.err.name", "Full name is required.")
	}
	if form.Email == "" || !strings.Contains(form.Email, "@") {
		missing("checkout.err.email", "A valid email address is required.")
	}
	if form.AddressLine1 == "" {
		missing("checkout.err.address", "Address line 1 is required.")
	}
	if form.City == "" {
		missing("checkout.err.city", "City is required.")
	}
	if form.State == "" {
		missing("checkout.err.state", "Province or state is required.")
	}
	if form.PostalCode == "" {
		missing("checkout.err.postal", "Postal code is required.")
	}
	if form.Country == "" {
		missing("checkout.err.country", "Country is required.")
	}
	switch form.PaymentMethod {
	case "stripe", "paypal":
	default:
		missing("checkout.err.payment", "Choose a payment method.")
	}
	return errs
}

func renderCheckoutErrors(w http.ResponseWriter, r *http.Request, lang string, form CheckoutForm, errs []string) {
	s := mw.GetSession(r)
	// mint a fresh token so the corrected form can be submitted
	s.CheckoutToken = uuid.NewString()
	s.MarkDirty()

	vm := newPageData(r, i18nOrDefault(lang, "checkout.title", "Checkout"))
	vm.Checkout = CheckoutView{
		Cart:   buildCartView(s.CartStore(), lang),
		Form:   form,
		Token:  s.CheckoutToken,
		Errors: errs,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	renderPage(w, r, "checkout", vm)
}
