package web

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handlePortalSearch serves the public lookup. The query is read from the
// form on POST and from the URL on GET so results can be linked.
func (h *Handler) handlePortalSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.FormValue("query"))

	data := pageData{Title: "Portal de vecinos", Query: query}
	if query != "" {
		neighbors, err := h.records.SearchNeighbors(r.Context(), query)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		data.Neighbors = neighbors
	}

	h.render(w, r, http.StatusOK, pagePortalSearch, data)
}

func (h *Handler) handlePortalDetail(w http.ResponseWriter, r *http.Request) {
	neighbor, ok := h.loadNeighbor(w, r)
	if !ok {
		return
	}

	payments, err := h.records.ListPayments(r.Context(), neighbor.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, pagePortalDetail, pageData{
		Title:    "Estado de cuenta",
		Neighbor: neighbor,
		Payments: payments,
	})
}

// handleUpload serves a stored evidence file by its generated name.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	path, err := h.files.Path(chi.URLParam(r, "filename"))
	if err != nil {
		h.notFound(w, r)
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			h.logger.Warn("Failed to stat upload", "path", path, "error", err)
		}
		h.notFound(w, r)
		return
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeFile(w, r, path)
}
