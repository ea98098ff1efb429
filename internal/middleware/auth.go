package middleware

import (
	"net/http"
	"strings"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/model"
)

// Authorization rejects malformed Authorization headers. Token validation is
// the upstream's job; a well-formed header is forwarded untouched.
func Authorization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v := r.Header.Get("Authorization"); v != "" {
			scheme, cred, ok := strings.Cut(strings.TrimSpace(v), " ")
			if !ok || strings.TrimSpace(cred) == "" || scheme == "" {
				WriteError(w, r, http.StatusUnauthorized, model.ErrorResponse{
					Error: "malformed Authorization header",
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
