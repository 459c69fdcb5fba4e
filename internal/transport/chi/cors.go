package chi

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware allows browser clients from the given origins.
// Register it before BearerAuthMiddleware so preflight requests are answered without a token.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})
}
