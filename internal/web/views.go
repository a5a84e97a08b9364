// Package web renders the server-side HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-billing/internal/common"
	"github.com/noah-isme/backend-billing/internal/pricing"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageIndex     = "index.html"
	PageBill      = "bill.html"
	PageAnalytics = "analytics.html"
)

// Views holds the parsed page templates.
type Views struct {
	ShopName string
	pages    map[string]*template.Template
}

var funcs = template.FuncMap{
	"money": pricing.Format,
	"token": func() string { return uuid.NewString() },
	"field": func() string { return common.SubmissionField },
}

// New parses every page against the shared layout.
func New(shopName string) (*Views, error) {
	pages := map[string]*template.Template{}
	for _, name := range []string{PageIndex, PageBill, PageAnalytics} {
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return &Views{ShopName: shopName, pages: pages}, nil
}

// Render executes page with data wrapped alongside the shop name.
func (v *Views) Render(w http.ResponseWriter, status int, page string, data any) {
	tpl, ok := v.pages[page]
	if !ok {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown page "+page, nil)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, map[string]any{"Shop": v.ShopName, "Data": data}); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "render failed", nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
