package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tidymark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tidymark/internal/httpserver/handlers"
)

func init() { Register(registerOps, Restricted) }

func registerOps(r chi.Router, d deps.Deps) {
	r.Post("/api/reload", handlers.Reload(d))
	r.Get("/api/infra", handlers.Infra(d))
}
