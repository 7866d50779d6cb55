package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"https://spectra-eyewear.com",
	"https://www.spectra-eyewear.com",
}

// CORS returns middleware that applies the storefront's allowed origin
// policy. origins is a comma-separated override; "*" or empty falls back to
// the defaults.
func CORS(origins string) func(http.Handler) http.Handler {
	allowed := defaultCORSOrigins
	if trimmed := strings.TrimSpace(origins); trimmed != "" && trimmed != "*" {
		allowed = nil
		for _, origin := range strings.Split(trimmed, ",") {
			if o := strings.TrimSpace(origin); o != "" {
				allowed = append(allowed, o)
			}
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Cart-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Cart-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
