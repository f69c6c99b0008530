package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tidymark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tidymark/internal/httpserver/handlers"
)

func init() { Register(registerCategories) }

func registerCategories(r chi.Router, d deps.Deps) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", handlers.ListCategories(d))
		r.Get("/refresh", handlers.RefreshCategories(d))
		r.Get("/custom", handlers.ListCustomCategories(d))
		r.Post("/custom", handlers.AddCustomCategory(d))
		r.Delete("/custom/{id}", handlers.DeleteCustomCategory(d))
	})
	r.Get("/api/suggestions", handlers.Suggestions(d))
}
