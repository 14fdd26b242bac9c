package handler

import (
	"errors"
	"net/http"
	"strings"

	"smartmedishop-storefront/internal/gateway"
	"smartmedishop-storefront/internal/middleware"
	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/pkg/apierror"
	"smartmedishop-storefront/pkg/response"
)

// AuthHandler handles login, registration and identity lookups.
type AuthHandler struct {
	store Storefront
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(store Storefront) *AuthHandler {
	return &AuthHandler{store: store}
}

// SessionResponse describes the identity bound to the browser session.
type SessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user,omitempty"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	var missing []apierror.FieldError
	if req.Username == "" {
		missing = append(missing, apierror.FieldError{Field: "username", Message: "is required"})
	}
	if req.Password == "" {
		missing = append(missing, apierror.FieldError{Field: "password", Message: "is required"})
	}
	if len(missing) > 0 {
		response.Error(w, apierror.ValidationError("invalid credentials", missing...))
		return
	}

	user, err := h.store.Login(r.Context(), middleware.GetSessionID(r.Context()), req)
	if errors.Is(err, gateway.ErrUnauthorized) {
		response.Error(w, apierror.Unauthorized("Invalid username or password"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, SessionResponse{Authenticated: true, User: user})
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.Registration
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	var invalid []apierror.FieldError
	if req.Username == "" {
		invalid = append(invalid, apierror.FieldError{Field: "username", Message: "is required"})
	}
	if !strings.Contains(req.Email, "@") {
		invalid = append(invalid, apierror.FieldError{Field: "email", Message: "must be an email address"})
	}
	if len(req.Password) < 6 {
		invalid = append(invalid, apierror.FieldError{Field: "password", Message: "must be at least 6 characters"})
	}
	if len(invalid) > 0 {
		response.Error(w, apierror.ValidationError("invalid registration", invalid...))
		return
	}

	user, err := h.store.Register(r.Context(), middleware.GetSessionID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, SessionResponse{Authenticated: true, User: user})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.store.Logout(r.Context(), middleware.GetSessionID(r.Context()))
	response.NoContent(w)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := h.store.CurrentUser(r.Context(), middleware.GetSessionID(r.Context()))
	response.OK(w, SessionResponse{Authenticated: user != nil, User: user})
}
