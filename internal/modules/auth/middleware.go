package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey struct{}

// OperatorFromContext returns the claims of the authenticated operator, if any.
func OperatorFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok
}

// Middleware requires a valid bearer token. With auth disabled it lets every
// request through.
func Middleware(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !svc.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			token := strings.TrimPrefix(raw, "Bearer ")
			if raw == "" || token == raw {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "bearer token required"})
				return
			}
			claims, err := svc.Verify(token)
			if err != nil {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
		})
	}
}
