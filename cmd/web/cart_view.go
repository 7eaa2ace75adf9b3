package main

import (
	"github.com/raolivei/iphone-export/internal/cart"
	"github.com/raolivei/iphone-export/internal/format"
)

// shippingFlatCAD is the advertised flat freight rate. Display only; the
// backend recomputes shipping when the order is created.
const shippingFlatCAD = 50.00

// CartLineView is one row of the cart table.
type CartLineView struct {
	ProductID int64
	Name      string
	ImageURL  string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// CartView aggregates the cart page data.
type CartView struct {
	Lang      string
	Items     []CartLineView
	Empty     bool
	ItemCount int
	Subtotal  string
	Shipping  string
	Total     string
}

func buildCartView(store *cart.Store, lang string) CartView {
	view := CartView{
		Lang:      lang,
		Empty:     store.Empty(),
		ItemCount: store.ItemCount(),
	}
	for _, line := range store.Lines() {
		view.Items = append(view.Items, CartLineView{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			ImageURL:  line.Product.ImageURL,
			Quantity:  line.Quantity,
			UnitPrice: format.CAD(line.Product.PriceCAD, lang),
			LineTotal: format.CAD(line.Product.PriceCAD*float64(line.Quantity), lang),
		})
	}
	subtotal := store.Total()
	view.Subtotal = format.CAD(subtotal, lang)
	if view.Empty {
		view.Shipping = format.CAD(0, lang)
		view.Total = view.Subtotal
	} else {
		view.Shipping = format.CAD(shippingFlatCAD, lang)
		view.Total = format.CAD(subtotal+shippingFlatCAD, lang)
	}
	return view
}
