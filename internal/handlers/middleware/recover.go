package middleware

import (
	"net/http"

	"walletd/internal/handlers/render"
	"walletd/internal/logger"
)

// Recover turns panics into plain 500 responses
// Details stay in the server log only
func Recover(l logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l.Error("Panic while handling request", "panic", rec, "method", r.Method, "uri", r.RequestURI)
					render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
