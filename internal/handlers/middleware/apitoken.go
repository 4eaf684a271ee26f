package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"walletd/internal/handlers/render"
)

// FixedToken gates all API traffic behind one shared secret
// The secret arrives in the Authorization header, optionally with a 'Bearer ' prefix
func FixedToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				render.ServiceError(w, "No token provided", http.StatusUnauthorized)
				return
			}

			provided := strings.TrimPrefix(header, "Bearer ")

			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				render.ServiceError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
