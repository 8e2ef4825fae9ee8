package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"maildesk/internal/auth"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// SessionValidator is the single façade operation the request layer needs.
type SessionValidator interface {
	ValidateSession(token string) (auth.Identity, error)
}

// RequireSession extracts the bearer token, validates it exactly once, and
// passes the resulting identity into the request context. Handlers read it
// back with IdentityFrom; nothing downstream re-derives the current user.
func RequireSession(sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, "Missing Authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeUnauthorized(w, "Invalid Authorization header")
				return
			}

			id, err := sessions.ValidateSession(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					writeUnauthorized(w, "Token expired")
				default:
					writeUnauthorized(w, "Invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), ctxIdentity, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the authenticated identity placed by RequireSession.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(ctxIdentity).(auth.Identity)
	return id, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	http.Error(w, message, http.StatusUnauthorized)
}
