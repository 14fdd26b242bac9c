package middleware

import (
	"context"
	"net/http"
	"time"

	"smartmedishop-storefront/pkg/uid"
)

// SessionIDKey is the context key for the browser session id.
const SessionIDKey contextKey = "session_id"

// SessionHeader lets non-browser clients pass the session id explicitly.
const SessionHeader = "X-Session-ID"

// SessionConfig configures the session cookie.
type SessionConfig struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// NewSessionID attaches a browser session id to every request. The id comes
// from the X-Session-ID header, then the cookie; a missing or malformed id is
// replaced by a fresh one and the cookie is (re)issued.
func NewSessionID(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := r.Header.Get(SessionHeader)
			if sid == "" {
				if c, err := r.Cookie(cfg.CookieName); err == nil {
					sid = c.Value
				}
			}
			if !uid.IsValid(sid) {
				sid = uid.New()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(cfg.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(SessionHeader, sid)

			ctx := context.WithValue(r.Context(), SessionIDKey, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID retrieves the session id from context.
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionIDKey).(string); ok {
		return id
	}
	return ""
}
