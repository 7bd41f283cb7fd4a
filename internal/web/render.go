package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/mmynk/parkfees/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages.
const (
	pageIndex        = "index.html"
	pageUsers        = "users.html"
	pageVehicles     = "vehicles.html"
	pagePayments     = "payments.html"
	pagePortalSearch = "portal_search.html"
	pagePortalDetail = "portal_detail.html"
)

var templateFuncs = template.FuncMap{
	"formatAmount": func(amount float64) string {
		return strconv.FormatFloat(amount, 'f', 2, 64)
	},
	"formatTime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
}

// pageData is the single view model every page renders from.
type pageData struct {
	Title     string
	Notice    *Notice
	Neighbor  *models.Neighbor
	Neighbors []*models.Neighbor
	Vehicles  []*models.Vehicle
	Payments  []*models.Payment
	Query     string

	// Form echoes submitted values back after a failed submission.
	Form map[string]string

	// Admin enables the delete controls in shared partials.
	Admin bool
}

// parseTemplates builds one template set per page: layout, partials and
// the page's "content" block.
func parseTemplates() (map[string]*template.Template, error) {
	pages := []string{pageIndex, pageUsers, pageVehicles, pagePayments, pagePortalSearch, pagePortalDetail}

	sets := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		sets[page] = tmpl
	}
	return sets, nil
}

// render writes a page. A pending flash notice is shown unless data
// already carries one. Output is buffered so a template error never
// produces a half-written page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	if data.Notice == nil {
		data.Notice = h.flash.Pop(w, r)
	}

	tmpl, ok := h.templates[page]
	if !ok {
		h.serverError(w, r, fmt.Errorf("unknown page %q", page))
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.serverError(w, r, fmt.Errorf("failed to render %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
