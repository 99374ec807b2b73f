package bootstrap

import (
	"net/http"

	"github.com/go-chi/cors"
)

// WithCORS wraps the handler so browser clients on allowedOrigins can reach the
// API and the WebSocket endpoint. Preflight requests never reach the router.
func WithCORS(next http.Handler, allowedOrigins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Idempotent-Replay"},
		AllowCredentials: true,
		MaxAge:           300,
	})(next)
}
