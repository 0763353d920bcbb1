package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

const corsMaxAgeSeconds = 300

// CORS applies the browser origin policy. With no configured origins only the
// local storefront dev server is allowed.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
			GuestTokenHeader, IdempotencyKeyHeader, requestIDHeader,
		},
		ExposedHeaders: []string{
			GuestTokenHeader, requestIDHeader, IdempotencyReplayedHeader, "Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeSeconds,
	})
}
