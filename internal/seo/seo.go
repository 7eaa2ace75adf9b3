// Package seo builds schema.org JSON-LD payloads for the storefront.
package seo

import "encoding/json"

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// Product returns a product schema payload with a CAD offer.
func Product(name, description, url, imageURL string, priceCAD float64, inStock bool) map[string]any {
	m := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        name,
		"description": description,
	}
	if url != "" {
		m["url"] = url
	}
	if imageURL != "" {
		m["image"] = imageURL
	}
	availability := "https://schema.org/OutOfStock"
	if inStock {
		availability = "https://schema.org/InStock"
	}
	m["offers"] = map[string]any{
		"@type":         "Offer",
		"priceCurrency": "CAD",
		"price":         priceCAD,
		"availability":  availability,
	}
	return m
}
