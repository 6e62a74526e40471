package middleware

import (
	"context"
	"net/http"
	"strings"

	"horizon/internal/domain/user"
)

type ContextKey string

const (
	UserKey   ContextKey = "user"
	UserIDKey ContextKey = "user_id"
)

// SessionCookieName is the HttpOnly cookie carrying the identity-provider
// session secret.
const SessionCookieName = "horizon_session"

// UserResolver resolves a session secret to the local user profile.
// Implemented by the user service on top of the identity provider.
type UserResolver interface {
	CurrentUser(ctx context.Context, sessionSecret string) (*user.User, error)
}

// Auth authenticates the request by resolving its session secret through
// the identity provider and puts the user on the request context.
func Auth(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var secret string

			// Try HttpOnly cookie first (browser requests)
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				secret = cookie.Value
			} else {
				// Fall back to Authorization header (API clients)
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					http.Error(w, "Authentication required", http.StatusUnauthorized)
					return
				}
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || parts[0] != "Bearer" {
					http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
					return
				}
				secret = parts[1]
			}

			u, err := resolver.CurrentUser(r.Context(), secret)
			if err != nil {
				http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, u)
			ctx = context.WithValue(ctx, UserIDKey, u.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user set by Auth.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(UserKey).(*user.User)
	return u, ok
}
