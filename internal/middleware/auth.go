package middleware

import (
	"context"
	"net/http"

	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/pkg/apierror"
)

// UserKey is the context key for the authenticated user.
const UserKey contextKey = "user"

// Identities resolves the user logged in on a browser session.
type Identities interface {
	CurrentUser(ctx context.Context, sid string) *model.User
}

// NewAuthMiddleware rejects requests whose session has no logged-in user.
// Must run after NewSessionID.
func NewAuthMiddleware(ids Identities) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := ids.CurrentUser(r.Context(), GetSessionID(r.Context()))
			if user == nil {
				writeError(w, apierror.Unauthorized("Authentication required"))
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows the request when the user has one of roles.
// Must run after NewAuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				writeError(w, apierror.Unauthorized("Authentication required"))
				return
			}
			for _, role := range roles {
				if user.UserType == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, apierror.Forbidden("Insufficient role"))
		})
	}
}

// GetUserFromContext retrieves the authenticated user from context.
func GetUserFromContext(ctx context.Context) *model.User {
	if u, ok := ctx.Value(UserKey).(*model.User); ok {
		return u
	}
	return nil
}
