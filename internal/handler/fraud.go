package handler

import (
	"net/http"
	"strings"

	"smartmedishop-storefront/internal/middleware"
	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/pkg/apierror"
	"smartmedishop-storefront/pkg/response"
)

// FraudHandler serves the fraud-review console.
type FraudHandler struct {
	store Storefront
}

// NewFraudHandler creates a new fraud handler.
func NewFraudHandler(store Storefront) *FraudHandler {
	return &FraudHandler{store: store}
}

// ResolveRequest closes a fraud alert.
type ResolveRequest struct {
	InvestigationNotes string `json:"investigationNotes"`
}

// Alerts handles GET /api/v1/fraud/alerts
func (h *FraudHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.store.FraudAlerts(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if alerts == nil {
		alerts = []model.FraudAlert{}
	}
	response.OK(w, alerts)
}

// Alert handles GET /api/v1/fraud/alerts/{id}
func (h *FraudHandler) Alert(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	alert, err := h.store.FraudAlert(r.Context(), middleware.GetSessionID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, alert)
}

// Resolve handles PUT /api/v1/fraud/alerts/{id}/resolve
func (h *FraudHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req ResolveRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	req.InvestigationNotes = strings.TrimSpace(req.InvestigationNotes)
	if req.InvestigationNotes == "" {
		response.Error(w, apierror.ValidationError("investigation notes are required",
			apierror.FieldError{Field: "investigationNotes", Message: "is required"}))
		return
	}

	res, err := h.store.ResolveFraudAlert(r.Context(), middleware.GetSessionID(r.Context()), id, req.InvestigationNotes)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, res)
}

// Statistics handles GET /api/v1/fraud/statistics
func (h *FraudHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.FraudStatistics(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, stats)
}
