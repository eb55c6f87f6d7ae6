package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the dashboard origins. A single "*" allows any origin without credentials.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0 || (len(origins) == 1 && origins[0] == "*")
	if allowAll {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", TraceIDHeader},
		ExposedHeaders:   []string{TraceIDHeader},
		AllowCredentials: !allowAll,
		MaxAge:           300,
	})
}
