package handlers

import (
	"html/template"

	"github.com/raolivei/iphone-export/internal/nav"
)

// OpenGraphData mirrors the og: meta tags emitted by the base layout.
type OpenGraphData struct {
	Title       string
	Description string
	URL         string
	SiteName    string
	Type        string
	Image       string
}

// TwitterData mirrors the twitter: meta tags.
type TwitterData struct {
	Card  string
	Site  string
	Image string
}

// SEOData carries per-page head metadata.
type SEOData struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraphData
	Twitter     TwitterData
	JSONLD      template.HTML
}

// PageData is a generic view model for pages using the shared layout.
type PageData struct {
	Title     string
	Lang      string
	SEO       SEOData
	Analytics Analytics

	Path        string
	Nav         []nav.RenderedItem
	CSRFToken   string
	CartCount   int
	AdminAuthed bool

	// flash-style notice rendered above the page body
	Notice     string
	NoticeTone string

	// Optional per-page view model payloads
	Shop       any
	Product    any
	Cart       any
	Checkout   any
	Order      any
	AdminLogin any
	Dashboard  any
	Orders     any
}
