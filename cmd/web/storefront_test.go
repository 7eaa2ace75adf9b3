package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/raolivei/iphone-export/internal/api"
)

// shopBackend is a stub of the storefront API with a tiny fixed catalog.
type shopBackend struct {
	mu            sync.Mutex
	products      map[int64]api.Product
	orders        map[string]api.Order
	checkoutCalls int
	lastIdemKey   string
}

func intPtr(v int) *int { return &v }

func newShopBackend() *shopBackend {
	return &shopBackend{
		products: map[int64]api.Product{
			1: {
				ID: 1, Name: "iPhone 15 Pro", Description: "Titanium. A17 Pro.",
				PriceCAD: 999.00, ImageURL: "/assets/img/15-pro.jpg",
				Specifications: "- Display: 6.1\"\n- Chip: A17 Pro\n",
				IsActive:       true, StockQuantity: intPtr(12), IsInStock: true,
			},
			2: {
				ID: 2, Name: "iPhone SE", Description: "Compact and capable.",
				PriceCAD: 549.00, IsActive: true, StockQuantity: intPtr(2),
				IsInStock: true, IsLowStock: true,
			},
			3: {
				ID: 3, Name: "iPhone 14", Description: "Sold out.",
				PriceCAD: 799.00, IsActive: true, StockQuantity: intPtr(0),
			},
		},
		orders: map[string]api.Order{},
	}
}

func (b *shopBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/products/":
		var list []api.Product
		for _, id := range []int64{1, 2, 3} {
			list = append(list, b.products[id])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"products": list, "total": len(list)})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/products/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/products/"), 10, 64)
		p, ok := b.products[id]
		if !ok {
			http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(p)

	case r.Method == http.MethodPost && r.URL.Path == "/api/checkout/":
		b.checkoutCalls++
		b.lastIdemKey = r.Header.Get("Idempotency-Key")
		var req api.CheckoutRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		subtotal := 0.0
		var items []api.OrderItem
		for _, it := range req.Items {
			p := b.products[it.ProductID]
			subtotal += p.PriceCAD * float64(it.Quantity)
			items = append(items, api.OrderItem{
				ProductID: it.ProductID, ProductName: p.Name,
				Quantity: it.Quantity, PriceCAD: p.PriceCAD,
				SubtotalCAD: p.PriceCAD * float64(it.Quantity),
			})
		}
		order := api.Order{
			ID: int64(len(b.orders) + 1), OrderNumber: "ORD-TEST-0001", Status: "pending",
			PaymentMethod: req.PaymentMethod, CustomerName: req.ShippingAddress.Name,
			CustomerEmail: req.ShippingAddress.Email,
			ShippingAddressLine1: req.ShippingAddress.AddressLine1,
			ShippingCity:         req.ShippingAddress.City, ShippingState: req.ShippingAddress.State,
			ShippingPostalCode: req.ShippingAddress.PostalCode, ShippingCountry: req.ShippingAddress.Country,
			SubtotalCAD: subtotal, ShippingCostCAD: 50.00, TotalCAD: subtotal + 50.00,
			Items: items, CreatedAt: "2026-09-01T10:30:00Z",
		}
		b.orders[order.OrderNumber] = order
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(order)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/orders/by-number/"):
		num := strings.TrimPrefix(r.URL.Path, "/api/orders/by-number/")
		order, ok := b.orders[num]
		if !ok {
			http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(order)

	default:
		http.NotFound(w, r)
	}
}

func parseDoc(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func TestShopPageListsCatalog(t *testing.T) {
	srv := newTestServer(t, newShopBackend())
	jar := newJar()
	rec := jar.get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parseDoc(t, rec)
	cards := doc.Find(".product-card")
	require.Equal(t, 3, cards.Length())
	require.Contains(t, doc.Find(".product-card").First().Text(), "iPhone 15 Pro")
	require.Contains(t, doc.Text(), "$999.00")
	// low stock and out of stock badges
	require.Equal(t, 1, doc.Find(".badge--warn").Length())
	require.Equal(t, 1, doc.Find(".badge--error").Length())
	// the sold out card offers no add-to-cart form
	require.Equal(t, 2, doc.Find(`.product-card form[action="/cart/add"]`).Length())
}

func TestShopPageBackendDownShowsNotice(t *testing.T) {
	srv := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	jar := newJar()
	rec := jar.get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parseDoc(t, rec)
	require.Equal(t, 1, doc.Find(".notice--error").Length())
	require.Zero(t, doc.Find(".product-card").Length())
}

func TestProductPageRendersSanitizedSpecs(t *testing.T) {
	backend := newShopBackend()
	p := backend.products[1]
	p.Specifications += "\n<script>alert(1)</script>\n"
	backend.products[1] = p

	srv := newTestServer(t, backend)
	jar := newJar()
	rec := jar.get(t, srv, "/products/1")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.NotContains(t, body, "<script>alert(1)")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	require.Contains(t, doc.Find(".specs-prose li").Text(), "A17 Pro")
}

func TestProductPageUnknownIDIs404(t *testing.T) {
	srv := newTestServer(t, newShopBackend())
	jar := newJar()
	require.Equal(t, http.StatusNotFound, jar.get(t, srv, "/products/99").Code)
	require.Equal(t, http.StatusNotFound, jar.get(t, srv, "/products/abc").Code)
}

func TestCartAddUpdateRemoveFlow(t *testing.T) {
	srv := newTestServer(t, newShopBackend())
	jar := newJar()
	jar.get(t, srv, "/")

	rec := jar.post(t, srv, "/cart/add", url.Values{"product_id": {"1"}, "quantity": {"2"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/cart", rec.Header().Get("Location"))

	// adding the same product again merges into one line
	jar.post(t, srv, "/cart/add", url.Values{"product_id": {"1"}, "quantity": {"1"}})
	jar.post(t, srv, "/cart/add", url.Values{"product_id": {"2"}})

	rec = jar.get(t, srv, "/cart")
	doc := parseDoc(t, rec)
	rows := doc.Find(".cart-table tbody tr")
	require.Equal(t, 2, rows.Length())
	require.Equal(t, "3", rows.First().Find(`input[name="quantity"]`).AttrOr("value", ""))
	// 3 x 999 + 1 x 549 = 3546, plus flat 50 shipping
	require.Contains(t, doc.Find(".cart-summary").Text(), "$3,546.00")
	require.Contains(t, doc.Find(".grand-total").Text(), "$3,596.00")
	// header cart count
	require.Contains(t, doc.Find(".site-header nav").Text(), "(4)")

	// updating to zero removes the line
	jar.post(t, srv, "/cart/update", url.Values{"product_id": {"1"}, "quantity": {"0"}})
	rec = jar.get(t, srv, "/cart")
	doc = parseDoc(t, rec)
	require.Equal(t, 1, doc.Find(".cart-table tbody tr").Length())

	jar.post(t, srv, "/cart/remove", url.Values{"product_id": {"2"}})
	rec = jar.get(t, srv, "/cart")
	require.Contains(t, rec.Body.String(), "Your cart is empty")
}

func TestCheckoutRedirectsWhenCartEmpty(t *testing.T) {
	srv := newTestServer(t, newShopBackend())
	jar := newJar()
	jar.get(t, srv, "/")

	rec := jar.get(t, srv, "/checkout")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/cart", rec.Header().Get("Location"))
}

func checkoutForm() url.Values {
	return url.Values{
		"name":           {"Ada Lovelace"},
		"email":          {"ada@example.com"},
		"address_line1":  {"1 Front St"},
		"city":           {"Toronto"},
		"state":          {"ON"},
		"postal_code":    {"M5J 2N1"},
		"country":        {"Canada"},
		"payment_method": {"stripe"},
	}
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	backend := newShopBackend()
	srv := newTestServer(t, backend)
	jar := newJar()
	jar.get(t, srv, "/")
	jar.post(t, srv, "/cart/add", url.Values{"product_id": {"1"}, "quantity": {"1"}})

	rec := jar.get(t, srv, "/checkout")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseDoc(t, rec)
	token := doc.Find(`input[name="checkout_token"]`).AttrOr("value", "")
	require.NotEmpty(t, token)

	form := checkoutForm()
	form.Set("checkout_token", token)
	rec = jar.post(t, srv, "/checkout", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/order/ORD-TEST-0001", rec.Header().Get("Location"))
	require.Equal(t, 1, backend.checkoutCalls)
	require.Equal(t, token, backend.lastIdemKey)

	// confirmation page renders the order snapshot
	rec = jar.get(t, srv, "/order/ORD-TEST-0001")
	require.Equal(t, http.StatusOK, rec.Code)
	doc = parseDoc(t, rec)
	require.Contains(t, doc.Text(), "ORD-TEST-0001")
	require.Contains(t, doc.Find(".grand-total").Text(), "$1,049.00")
	require.Contains(t, doc.Find("address").Text(), "Toronto, ON M5J 2N1")

	// cart is cleared after a successful order
	rec = jar.get(t, srv, "/cart")
	require.Contains(t, rec.Body.String(), "Your cart is empty")
}

func TestCheckoutStaleTokenDoesNotDuplicateOrder(t *testing.T) {
	backend := newShopBackend()
	srv := newTestServer(t, backend)
	jar := newJar()
	jar.get(t, srv, "/")
	jar.post(t, srv, "/cart/add", url.Values{"product_id": {"2"}, "quantity": {"1"}})

	rec := jar.get(t, srv, "/checkout")
	token := parseDoc(t, rec).Find(`input[name="checkout_token"]`).AttrOr("value", "")
	require.NotEmpty(t, token)

	form := checkoutForm()
	form.Set("checkout_token", token)
	rec = jar.post(t, srv, "/checkout", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, 1, backend.checkoutCalls)

	// cart cleared; a replayed form bounces off the empty-cart guard
	rec = jar.post(t, srv, "/checkout", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/cart", rec.Header().Get("Location"))
	require.Equal(t, 1, backend.checkoutCalls)

	// with items back in the cart, the consumed token is still rejected
	jar.post(t, srv, "/cart/add", url.Values{"product_id": {"2"}})
	rec = jar.post(t, srv, "/checkout", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/checkout?notice=resubmitted", rec.Header().Get("Location"))
	require.Equal(t, 1, backend.checkoutCalls)
}

func TestCheckoutValidationErrorsKeepInput(t *testing.T) {
	srv := newTestServer(t, newShopBackend())
	jar := newJar()
	jar.get(t, srv, "/")
	jar.post(t, srv, "/cart/add", url.Values{"product_id": {"1"}})

	rec := jar.get(t, srv, "/checkout")
	token := parseDoc(t, rec).Find(`input[name="checkout_token"]`).AttrOr("value", "")

	form := checkoutForm()
	form.Set("checkout_token", token)
	form.Set("email", "not-an-email")
	form.Set("city", "")
	rec = jar.post(t, srv, "/checkout", form)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	doc := parseDoc(t, rec)
	require.GreaterOrEqual(t, doc.Find(".form-errors li").Length(), 2)
	// submitted values survive the re-render, and a fresh token is minted
	require.Equal(t, "Ada Lovelace", doc.Find(`input[name="name"]`).AttrOr("value", ""))
	fresh := doc.Find(`input[name="checkout_token"]`).AttrOr("value", "")
	require.NotEmpty(t, fresh)
	require.NotEqual(t, token, fresh)
}

func TestOrderPageUnknownNumberIs404(t *testing.T) {
	srv := newTestServer(t, newShopBackend())
	jar := newJar()
	require.Equal(t, http.StatusNotFound, jar.get(t, srv, "/order/ORD-NOPE").Code)
}
