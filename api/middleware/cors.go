package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/vintagegrove/backend/pkg/config"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"https://vintagegrove.shop",
	"https://www.vintagegrove.shop",
}

// CORS returns middleware that applies the storefront's allowed origin
// policy. Credentials stay enabled so the cart session and attribution
// cookies ride along.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
