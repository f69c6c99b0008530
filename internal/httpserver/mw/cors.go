package mw

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS lets the browser extension call the API. Origins may hold one
// wildcard each, e.g. "chrome-extension://*".
func CORS(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler
}
