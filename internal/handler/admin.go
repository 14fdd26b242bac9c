package handler

import (
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"smartmedishop-storefront/internal/middleware"
	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/pkg/apierror"
	"smartmedishop-storefront/pkg/response"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// AdminHandler serves back-office views: the checkout journal, runtime
// stats and stock movements.
type AdminHandler struct {
	store       Storefront
	journalType string
	startTime   time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(store Storefront, journalType string) *AdminHandler {
	return &AdminHandler{
		store:       store,
		journalType: journalType,
		startTime:   time.Now(),
	}
}

// ListCheckouts handles GET /api/v1/admin/checkouts
// Query: state, user_id, limit, offset.
func (h *AdminHandler) ListCheckouts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.CheckoutFilter{State: strings.ToUpper(strings.TrimSpace(q.Get("state")))}
	if raw := q.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(w, apierror.ValidationError("invalid filter",
				apierror.FieldError{Field: "user_id", Message: "must be an integer"}))
			return
		}
		filter.UserID = id
	}
	limit := intQuery(r, "limit", defaultPageSize, maxPageSize)
	if limit == 0 {
		limit = defaultPageSize
	}
	offset := intQuery(r, "offset", 0, 0)

	records, total, err := h.store.Checkouts(r.Context(), filter, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []model.CheckoutRecord{}
	}
	response.JSONWithMeta(w, http.StatusOK, records, limit, offset, total)
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]interface{})

	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)
	stats["journal_type"] = h.journalType
	stats["active_shoppers"] = h.store.ActiveShoppers()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"heap_inuse_mb": float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	journal, err := h.store.CheckoutStats(r.Context())
	switch {
	case err == nil:
		stats["checkouts"] = journal
	default:
		stats["checkouts"] = map[string]interface{}{
			"status": "error",
			"error":  toAPIError(err).Message,
		}
	}

	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}

// Movements handles GET /api/v1/admin/products/{id}/movements
func (h *AdminHandler) Movements(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	movements, err := h.store.Movements(r.Context(), middleware.GetSessionID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if movements == nil {
		movements = []model.StockMovement{}
	}
	response.OK(w, movements)
}
