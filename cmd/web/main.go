// Command web serves the storefront: product pages, session-backed cart,
// checkout against the backend API, and a small admin area.
package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/raolivei/iphone-export/internal/api"
	"github.com/raolivei/iphone-export/internal/i18n"
	mw "github.com/raolivei/iphone-export/internal/middleware"
	"github.com/raolivei/iphone-export/internal/observability"
)

var (
	templatesDir = "templates"
	publicDir    = "public"
	localesDir   = "locales"
	// devMode is set in main() based on env: SHOP_WEB_DEV (preferred) or DEV (fallback)
	devMode bool

	apiClient  *api.Client
	i18nBundle *i18n.Bundle
	logger     *zap.Logger
)

func main() {
	var (
		addr       string
		tmplPath   string
		pubPath    string
		localePath string
	)
	// Port resolution: prefer SHOP_WEB_PORT, then PORT, else 8080
	port := os.Getenv("SHOP_WEB_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}
	flag.StringVar(&addr, "addr", ":"+port, "HTTP listen address")
	flag.StringVar(&tmplPath, "templates", templatesDir, "templates directory")
	flag.StringVar(&pubPath, "public", publicDir, "public assets directory")
	flag.StringVar(&localePath, "locales", localesDir, "locale files directory")
	flag.Parse()

	templatesDir = tmplPath
	publicDir = pubPath
	localesDir = localePath

	devMode = os.Getenv("SHOP_WEB_DEV") != "" || os.Getenv("DEV") != ""

	var err error
	logger, err = observability.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if !devMode {
		// Parse templates once in production
		if err := primeTemplates(); err != nil {
			logger.Fatal("parse templates", zap.Error(err))
		}
	}

	i18nBundle, err = i18n.Load(localesDir, "en", []string{"en", "fr"})
	if err != nil {
		logger.Fatal("load locales", zap.Error(err))
	}

	apiBase := os.Getenv("SHOP_API_BASE_URL")
	if apiBase == "" {
		apiBase = "http://localhost:8004"
	}
	apiClient, err = api.NewClient(apiBase, nil)
	if err != nil {
		logger.Fatal("api client", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("web listening", zap.String("addr", addr), zap.Bool("dev", devMode), zap.String("api", apiBase))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("listen", zap.Error(err))
	}
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// Behind a trusted reverse proxy RealIP resolves the client address from
	// X-Forwarded-For; only trusted proxies may set these headers.
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(mw.Session)
	r.Use(mw.Locale(i18nBundle))
	r.Use(mw.CSRF)
	r.Use(mw.VaryLocale)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	assets := http.StripPrefix("/assets", mw.AssetsWithCache(publicDir+"/assets"))
	r.Handle("/assets/*", assets)

	r.Get("/", ShopHandler)
	r.Get("/products/{productID}", ProductHandler)

	r.Get("/cart", CartHandler)
	r.Post("/cart/add", CartAddHandler)
	r.Post("/cart/update", CartUpdateHandler)
	r.Post("/cart/remove", CartRemoveHandler)
	r.Post("/cart/clear", CartClearHandler)

	r.Get("/checkout", CheckoutHandler)
	r.Post("/checkout", CheckoutSubmitHandler)
	r.Get("/order/{orderNumber}", OrderHandler)

	r.Get("/admin/login", AdminLoginHandler)
	r.Post("/admin/login", AdminLoginSubmitHandler)
	r.Post("/admin/logout", AdminLogoutHandler)
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAdmin)
		r.Get("/admin", AdminDashboardHandler)
		r.Get("/admin/orders", AdminOrdersHandler)
		r.Post("/admin/orders/{orderID}/status", AdminOrderUpdateHandler)
	})

	r.NotFound(NotFoundHandler)
	return r
}
