package handler

import (
	"net/http"
	"strings"

	"smartmedishop-storefront/internal/middleware"
	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/pkg/apierror"
	"smartmedishop-storefront/pkg/response"
)

// InventoryHandler lets admins edit products and restock them.
type InventoryHandler struct {
	store Storefront
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(store Storefront) *InventoryHandler {
	return &InventoryHandler{store: store}
}

// RestockRequest records a manual IN movement.
type RestockRequest struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

func checkExpiration(raw string) []apierror.FieldError {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	p := model.Product{ExpirationDate: raw}
	if _, ok := p.ExpiresAt(); !ok {
		return []apierror.FieldError{{Field: "expirationDate", Message: "must be a date (YYYY-MM-DD)"}}
	}
	return nil
}

// CreateProduct handles POST /api/v1/admin/products
func (h *InventoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	if err := decodeJSON(r, &p, false); err != nil {
		writeError(w, err)
		return
	}
	p.ID = 0
	p.Name = strings.TrimSpace(p.Name)

	var problems []apierror.FieldError
	if p.Name == "" {
		problems = append(problems, apierror.FieldError{Field: "name", Message: "is required"})
	}
	if p.Price < 0 {
		problems = append(problems, apierror.FieldError{Field: "price", Message: "must not be negative"})
	}
	if p.Quantity < 0 {
		problems = append(problems, apierror.FieldError{Field: "quantity", Message: "must not be negative"})
	}
	if p.LowStockThreshold < 0 {
		problems = append(problems, apierror.FieldError{Field: "lowStockThreshold", Message: "must not be negative"})
	}
	problems = append(problems, checkExpiration(p.ExpirationDate)...)
	if len(problems) > 0 {
		response.Error(w, apierror.ValidationError("invalid product", problems...))
		return
	}

	created, err := h.store.CreateProduct(r.Context(), middleware.GetSessionID(r.Context()), p)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, created)
}

// UpdateProduct handles PUT /api/v1/admin/products/{id}
// Omitted fields are left unchanged.
func (h *InventoryHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var upd model.ProductUpdate
	if err := decodeJSON(r, &upd, false); err != nil {
		writeError(w, err)
		return
	}

	var problems []apierror.FieldError
	if upd.IsEmpty() {
		problems = append(problems, apierror.FieldError{Message: "no field to update"})
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		problems = append(problems, apierror.FieldError{Field: "name", Message: "must not be empty"})
	}
	if upd.Price != nil && *upd.Price < 0 {
		problems = append(problems, apierror.FieldError{Field: "price", Message: "must not be negative"})
	}
	if upd.Quantity != nil && *upd.Quantity < 0 {
		problems = append(problems, apierror.FieldError{Field: "quantity", Message: "must not be negative"})
	}
	if upd.LowStockThreshold != nil && *upd.LowStockThreshold < 0 {
		problems = append(problems, apierror.FieldError{Field: "lowStockThreshold", Message: "must not be negative"})
	}
	if upd.ExpirationDate != nil {
		problems = append(problems, checkExpiration(*upd.ExpirationDate)...)
	}
	if len(problems) > 0 {
		response.Error(w, apierror.ValidationError("invalid product update", problems...))
		return
	}

	updated, err := h.store.UpdateProduct(r.Context(), middleware.GetSessionID(r.Context()), id, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, updated)
}

// Restock handles POST /api/v1/admin/products/{id}/restock
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req RestockRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	if req.Quantity <= 0 {
		response.Error(w, apierror.ValidationError("invalid restock",
			apierror.FieldError{Field: "quantity", Message: "must be positive"}))
		return
	}

	m, err := h.store.Restock(r.Context(), middleware.GetSessionID(r.Context()), id, req.Quantity, strings.TrimSpace(req.Reason))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, m)
}

// Alerts handles GET /api/v1/admin/products/{id}/alerts
func (h *InventoryHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	alerts, err := h.store.StockAlerts(r.Context(), middleware.GetSessionID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if alerts == nil {
		alerts = []model.StockAlert{}
	}
	response.OK(w, alerts)
}
