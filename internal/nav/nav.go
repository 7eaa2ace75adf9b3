// Package nav defines the storefront navigation and active-state logic.
package nav

import "strings"

// Item represents a top-level navigation item.
type Item struct {
	Path     string // e.g. "/cart"
	LabelKey string // i18n key, e.g. "nav.cart"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/", LabelKey: "nav.shop"},
	{Path: "/cart", LabelKey: "nav.cart"},
	{Path: "/admin", LabelKey: "nav.admin"},
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		// product pages belong to the shop section
		return currentPath == "/" || strings.HasPrefix(currentPath, "/products/")
	}
	if currentPath == itemPath {
		return true
	}
	return strings.HasPrefix(currentPath, itemPath+"/")
}
