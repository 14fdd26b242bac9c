package handler

import (
	"net/http"
	"strings"

	"smartmedishop-storefront/internal/middleware"
	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/pkg/apierror"
	"smartmedishop-storefront/pkg/response"
)

const (
	defaultUserPageSize = 10
	maxUserPageSize     = 100
)

var errSelfDeactivation = apierror.Conflict("You cannot deactivate your own account")

// userSortFields are the columns the user directory can be sorted by.
var userSortFields = map[string]bool{
	"id": true, "username": true, "email": true, "registrationDate": true, "lastLogin": true,
}

// UserHandler administers accounts.
type UserHandler struct {
	store Storefront
}

// NewUserHandler creates a new user handler.
func NewUserHandler(store Storefront) *UserHandler {
	return &UserHandler{store: store}
}

// List handles GET /api/v1/admin/users
// Query: page (from 0), size, sort, dir (asc|desc), q.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := model.UserQuery{
		Page:   intQuery(r, "page", 0, 0),
		Size:   intQuery(r, "size", defaultUserPageSize, maxUserPageSize),
		Search: strings.TrimSpace(q.Get("q")),
	}
	if query.Size == 0 {
		query.Size = defaultUserPageSize
	}
	if sortBy := q.Get("sort"); userSortFields[sortBy] {
		query.SortBy = sortBy
	}
	if dir := strings.ToLower(q.Get("dir")); dir == "asc" || dir == "desc" {
		query.SortDir = dir
	}

	page, err := h.store.Users(r.Context(), middleware.GetSessionID(r.Context()), query)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSONWithMeta(w, http.StatusOK, page.Users, page.Size, page.CurrentPage*page.Size, page.TotalItems)
}

// Get handles GET /api/v1/admin/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.store.User(r.Context(), middleware.GetSessionID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, user)
}

// Activate handles PUT /api/v1/admin/users/{id}/activate
func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate handles PUT /api/v1/admin/users/{id}/deactivate
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	sid := middleware.GetSessionID(r.Context())

	if current := h.store.CurrentUser(r.Context(), sid); !active && current != nil && current.ID == id {
		writeError(w, errSelfDeactivation)
		return
	}
	if err := h.store.SetUserActive(r.Context(), sid, id, active); err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"id": id, "isActive": active})
}

// Statistics handles GET /api/v1/admin/users/statistics
func (h *UserHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.UserStatistics(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, stats)
}
