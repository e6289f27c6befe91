package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS allows browser clients from the given comma-separated origins.
// "*" or an empty list allows every origin.
func CORS(origins string) func(http.Handler) http.Handler {
	allowed := []string{"*"}

	if trimmed := strings.TrimSpace(origins); trimmed != "" && trimmed != "*" {
		allowed = allowed[:0]

		for _, origin := range strings.Split(trimmed, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowed = append(allowed, origin)
			}
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", HeaderRequestID},
		ExposedHeaders: []string{"Location", HeaderRequestID},
		MaxAge:         600,
	}).Handler
}
