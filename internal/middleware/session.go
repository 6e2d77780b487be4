package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/jesterfour4/higher-ground-care/internal/services"
)

type contextKey string

// UserIDKey is the request-context key holding the authenticated user's ID.
const UserIDKey contextKey = "user_id"

// SessionValidator resolves a session token to a user ID. The default is
// the Redis-backed services.ValidateSession; tests inject their own.
type SessionValidator func(token string) (uuid.UUID, bool, error)

// SessionGuard protects page routes. A request without a valid session is
// redirected to the login page with the original path preserved, so the
// user lands where they were headed after signing in. API callers get a
// plain 401 instead of a redirect.
func SessionGuard(validate SessionValidator) func(http.Handler) http.Handler {
	if validate == nil {
		validate = services.ValidateSession
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(services.SessionCookieName); err == nil {
				token = cookie.Value
			}

			userID, valid, err := validate(token)
			if err == nil && valid {
				ctx := context.WithValue(r.Context(), UserIDKey, userID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if r.Method == http.MethodGet {
				target := "/login?redirect=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"Authentication required"}`))
		})
	}
}

// UserIDFromContext returns the authenticated user ID set by SessionGuard.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}
