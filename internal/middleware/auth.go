package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/fureverhome/fureverhome-go/internal/crypto"
)

// CookieName is the cookie that carries the identity token.
const CookieName = "token"

type contextKey string

const emailKey contextKey = "email"

// AdminChecker reports whether a user holds the admin role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// Authenticate returns middleware that validates the identity token cookie and
// puts the caller's email on the request context. Requests without a valid
// token are refused with 401 before any handler runs.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			claims, err := crypto.ValidateToken(cookie.Value, secret)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			if info := infoFromContext(r.Context()); info != nil {
				info.email = claims.Email
			}
			next.ServeHTTP(w, r.WithContext(ContextWithEmail(r.Context(), claims.Email)))
		})
	}
}

// RequireAdmin returns middleware that lets only admins through. It must be
// mounted after Authenticate. Authenticated non-admins get 403.
func RequireAdmin(roles AdminChecker, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := EmailFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			admin, err := roles.IsAdmin(r.Context(), email)
			if err != nil {
				log.Error("role lookup failed", zap.String("email", email), zap.Error(err))
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !admin {
				writeJSONError(w, http.StatusForbidden, "forbidden access")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ContextWithEmail attaches an authenticated email to ctx.
func ContextWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// EmailFromContext extracts the authenticated email from the request context.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok && email != ""
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
