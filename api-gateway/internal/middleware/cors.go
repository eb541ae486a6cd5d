package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// NewCORS; Retry-After открывается всегда, его ставит RateLimit.
func NewCORS(allowedOrigins, allowedMethods, allowedHeaders, exposedHeaders []string,
	allowCredentials bool, maxAge int) func(http.Handler) http.Handler {

	if !slices.Contains(exposedHeaders, "Retry-After") {
		exposedHeaders = append(slices.Clone(exposedHeaders), "Retry-After")
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})
}
