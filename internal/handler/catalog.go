package handler

import (
	"net/http"
	"strings"

	"smartmedishop-storefront/internal/middleware"
	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/pkg/response"
)

// CatalogHandler serves the product listing.
type CatalogHandler struct {
	store Storefront
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(store Storefront) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// List handles GET /api/v1/catalog
// Optional filters: q (name or brand substring), type, low_stock=true.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.Catalog(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	term := strings.ToLower(strings.TrimSpace(q.Get("q")))
	kind := strings.TrimSpace(q.Get("type"))
	lowOnly := q.Get("low_stock") == "true"

	filtered := make([]model.Product, 0, len(products))
	for i := range products {
		p := &products[i]
		if kind != "" && !strings.EqualFold(p.Type, kind) {
			continue
		}
		if lowOnly && !p.IsLowStock() {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Brand), term) {
			continue
		}
		filtered = append(filtered, *p)
	}

	response.OK(w, filtered)
}

// Get handles GET /api/v1/catalog/{id}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.store.Product(r.Context(), middleware.GetSessionID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, product)
}
