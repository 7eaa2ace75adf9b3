package main

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/raolivei/iphone-export/internal/api"
	"github.com/raolivei/iphone-export/internal/format"
	"github.com/raolivei/iphone-export/internal/markdown"
	mw "github.com/raolivei/iphone-export/internal/middleware"
	"github.com/raolivei/iphone-export/internal/seo"
)

// ProductCard is the grid-tile view model for the shop page.
type ProductCard struct {
	ID          int64
	Name        string
	Description string
	Price       string
	ImageURL    string
	InStock     bool
	LowStock    bool
}

// ShopView backs the product listing page.
type ShopView struct {
	Products  []ProductCard
	LoadError bool
}

// ProductView backs the product detail page.
type ProductView struct {
	ProductCard
	SpecsHTML     template.HTML
	StockQuantity *int
}

func productCard(p api.Product, lang string) ProductCard {
	return ProductCard{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       format.CAD(p.PriceCAD, lang),
		ImageURL:    p.ImageURL,
		InStock:     p.IsInStock,
		LowStock:    p.IsLowStock,
	}
}

// ShopHandler renders the product listing. A backend outage degrades to an
// empty grid with a notice instead of an error page.
func ShopHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	vm := newPageData(r, i18nOrDefault(lang, "shop.title", "iPhones for export"))

	view := ShopView{}
	products, err := apiClient.ListProducts(r.Context())
	if err != nil {
		logger.Warn("list products", zap.Error(err))
		view.LoadError = true
		vm.Notice = i18nOrDefault(lang, "shop.unavailable", "The catalog is temporarily unavailable. Please try again shortly.")
		vm.NoticeTone = "error"
	}
	for _, p := range products {
		view.Products = append(view.Products, productCard(p, lang))
	}
	vm.Shop = view

	vm.SEO.Title = vm.Title
	vm.SEO.Description = i18nOrDefault(lang, "shop.description", "Canadian-market iPhones shipped worldwide with flat-rate freight.")
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.OG.URL = vm.SEO.Canonical
	vm.SEO.OG.Title = vm.SEO.Title
	vm.SEO.OG.Description = vm.SEO.Description
	vm.SEO.OG.Type = "website"
	vm.SEO.JSONLD = template.HTML(seo.JSON(seo.Organization(i18nOrDefault(lang, "brand.name", "iPhone Export"), vm.SEO.Canonical, "")))

	renderPage(w, r, "shop", vm)
}

// ProductHandler renders the detail page for one product.
func ProductHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		NotFoundHandler(w, r)
		return
	}

	p, err := apiClient.GetProduct(r.Context(), id)
	if errors.Is(err, api.ErrNotFound) {
		NotFoundHandler(w, r)
		return
	}
	if err != nil {
		logger.Error("get product", zap.Int64("id", id), zap.Error(err))
		http.Error(w, "backend unavailable", http.StatusBadGateway)
		return
	}

	view := ProductView{
		ProductCard:   productCard(p, lang),
		StockQuantity: p.StockQuantity,
	}
	if p.Specifications != "" {
		if html, err := markdown.Render(p.Specifications); err == nil {
			view.SpecsHTML = html
		} else {
			logger.Warn("render specifications", zap.Int64("id", id), zap.Error(err))
		}
	}

	vm := newPageData(r, p.Name)
	vm.Product = view

	vm.SEO.Title = p.Name
	vm.SEO.Description = p.Description
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.OG.URL = vm.SEO.Canonical
	vm.SEO.OG.Title = p.Name
	vm.SEO.OG.Description = p.Description
	vm.SEO.OG.Type = "product"
	vm.SEO.OG.Image = p.ImageURL
	vm.SEO.JSONLD = template.HTML(seo.JSON(seo.Product(p.Name, p.Description, vm.SEO.Canonical, p.ImageURL, p.PriceCAD, p.IsInStock)))

	renderPage(w, r, "product", vm)
}
