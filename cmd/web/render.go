package main

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/raolivei/iphone-export/internal/format"
	handlersPkg "github.com/raolivei/iphone-export/internal/handlers"
	mw "github.com/raolivei/iphone-export/internal/middleware"
	"github.com/raolivei/iphone-export/internal/nav"
)

var tmplCache *template.Template

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"now": time.Now,
		"t": func(lang, key string) string {
			if i18nBundle == nil {
				return key
			}
			return i18nBundle.T(lang, key)
		},
		"cad":  format.CAD,
		"date": format.DateString,
	}
}

func parseTemplates() (*template.Template, error) {
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(templateFuncs()).ParseFiles(files...)
}

func primeTemplates() error {
	tc, err := parseTemplates()
	if err != nil {
		return err
	}
	tmplCache = tc
	return nil
}

// renderTemplate executes a named template. In dev mode, templates are
// reparsed on each request.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	t := tmplCache
	if devMode {
		tc, err := parseTemplates()
		if err != nil {
			http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
			return
		}
		t = tc
	}
	if t == nil {
		http.Error(w, "template not initialized", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		if logger != nil {
			logger.Error("template exec", zap.String("template", name), zap.Error(err))
		}
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
	}
}

// renderPage executes a page template wrapped in the base layout.
func renderPage(w http.ResponseWriter, r *http.Request, page string, vm handlersPkg.PageData) {
	renderTemplate(w, r, page, vm)
}

// newPageData seeds the shared layout fields from the request.
func newPageData(r *http.Request, title string) handlersPkg.PageData {
	s := mw.GetSession(r)
	return handlersPkg.PageData{
		Title:       title,
		Lang:        mw.Lang(r),
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		CSRFToken:   s.CSRFToken,
		CartCount:   s.CartStore().ItemCount(),
		AdminAuthed: s.AdminToken != "",
		Analytics:   handlersPkg.LoadAnalyticsFromEnv(),
	}
}

// i18nOrDefault translates key, falling back to def when no entry exists.
func i18nOrDefault(lang, key, def string) string {
	if i18nBundle == nil {
		return def
	}
	if v := i18nBundle.T(lang, key); v != key {
		return v
	}
	return def
}

// absoluteURL reconstructs the request URL for canonical links.
func absoluteURL(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		if fw := r.Header.Get("X-Forwarded-Proto"); fw != "" {
			scheme = fw
		} else {
			scheme = "http"
		}
	}
	return scheme + "://" + r.Host + r.URL.Path
}

// NotFoundHandler renders the shared 404 page.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	vm := newPageData(r, i18nOrDefault(lang, "notfound.title", "Page not found"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	renderTemplate(w, r, "notfound", vm)
}
