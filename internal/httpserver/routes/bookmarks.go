package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tidymark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tidymark/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Get("/archived", handlers.ListArchived(d))
		r.Get("/search", handlers.SearchBookmarks(d))
		r.Post("/categorize", handlers.Categorize(d))
		r.Post("/suggestions", handlers.SuggestFor(d))
		r.Put("/archive-batch", handlers.ArchiveBatch(d))
		r.Put("/{id}", handlers.UpdateBookmark(d))
		r.Put("/{id}/archive", handlers.ArchiveBookmark(d))
		r.Put("/{id}/restore", handlers.RestoreBookmark(d))
		r.Delete("/{id}", handlers.DeleteBookmark(d))
	})
}
