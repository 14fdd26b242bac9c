package handler

import (
	"net/http"

	"smartmedishop-storefront/internal/middleware"
	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/pkg/response"
)

// HistoryHandler lists past purchases and transactions.
type HistoryHandler struct {
	store Storefront
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(store Storefront) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// Purchases handles GET /api/v1/purchases
func (h *HistoryHandler) Purchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.store.Purchases(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if purchases == nil {
		purchases = []model.Purchase{}
	}
	response.OK(w, purchases)
}

// Transactions handles GET /api/v1/transactions
func (h *HistoryHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.store.Transactions(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	response.OK(w, txs)
}

// Statistics handles GET /api/v1/transactions/statistics
func (h *HistoryHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.TransactionStatistics(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, stats)
}

// Overview handles GET /api/v1/transactions/statistics/all
func (h *HistoryHandler) Overview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.TransactionOverview(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, stats)
}
