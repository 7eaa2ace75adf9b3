package main

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/raolivei/iphone-export/internal/api"
	"github.com/raolivei/iphone-export/internal/cart"
	mw "github.com/raolivei/iphone-export/internal/middleware"
)

// CartHandler renders the cart page.
func CartHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	s := mw.GetSession(r)

	vm := newPageData(r, i18nOrDefault(lang, "cart.title", "Your cart"))
	vm.Cart = buildCartView(s.CartStore(), lang)
	renderPage(w, r, "cart", vm)
}

// CartAddHandler snapshots the product into the session cart and bounces
// back to the referring page.
func CartAddHandler(w http.ResponseWriter, r *http.Request) {
	productID, ok := formProductID(w, r)
	if !ok {
		return
	}
	quantity := formQuantity(r, 1)

	// Snapshot name and price now so cart rows stay stable even if the
	// catalog changes before checkout.
	p, err := apiClient.GetProduct(r.Context(), productID)
	if errors.Is(err, api.ErrNotFound) {
		NotFoundHandler(w, r)
		return
	}
	if err != nil {
		logger.Error("cart add: get product", zap.Int64("id", productID), zap.Error(err))
		http.Error(w, "backend unavailable", http.StatusBadGateway)
		return
	}

	s := mw.GetSession(r)
	store := s.CartStore()
	store.Add(cart.Product{
		ID:       p.ID,
		Name:     p.Name,
		PriceCAD: p.PriceCAD,
		ImageURL: p.ImageURL,
	}, quantity)
	s.SaveCart(store)

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// CartUpdateHandler sets an absolute quantity; zero or less removes the line.
func CartUpdateHandler(w http.ResponseWriter, r *http.Request) {
	productID, ok := formProductID(w, r)
	if !ok {
		return
	}
	quantity := formQuantity(r, 0)

	s := mw.GetSession(r)
	store := s.CartStore()
	store.UpdateQuantity(productID, quantity)
	s.SaveCart(store)

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// CartRemoveHandler drops one line from the cart.
func CartRemoveHandler(w http.ResponseWriter, r *http.Request) {
	productID, ok := formProductID(w, r)
	if !ok {
		return
	}

	s := mw.GetSession(r)
	store := s.CartStore()
	store.Remove(productID)
	s.SaveCart(store)

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// CartClearHandler empties the cart.
func CartClearHandler(w http.ResponseWriter, r *http.Request) {
	s := mw.GetSession(r)
	store := s.CartStore()
	store.Clear()
	s.SaveCart(store)

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func formProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(r.PostFormValue("product_id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func formQuantity(r *http.Request, fallback int) int {
	q, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		return fallback
	}
	return q
}
