package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
)

type classificationResponse struct {
	Success bool           `json:"success"`
	Data    classification `json:"data"`
}

type classification struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type archiveBatchResponse struct {
	Success  bool `json:"success"`
	Archived int  `json:"archived"`
}

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := d.Organizer.List(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func ListArchived(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := d.Organizer.ListArchived(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// Categorize handles both request shapes: a batch is categorized and
// stored, a single bookmark is only classified.
func Categorize(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categorizeRequest
		if err := decodeJSON(w, r, d, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, r, d, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		if req.single() {
			b := d.Organizer.Classify(r.Context(), domain.Bookmark{Title: req.Title, URL: req.URL, Content: req.Content})
			writeJSON(w, http.StatusOK, classificationResponse{
				Success: true,
				Data:    classification{Category: b.Category, Tags: b.Tags},
			})
			return
		}

		out, err := d.Organizer.CategorizeAll(r.Context(), req.Bookmarks)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Info("categorize request served",
			logger.Int("bookmarks", len(out)),
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusOK, out)
	}
}

func SuggestFor(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req suggestionsRequest
		if err := decodeJSON(w, r, d, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, r, d, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		writeJSON(w, http.StatusOK, d.Organizer.SuggestFor(r.Context(), req.Bookmarks))
	}
}

func ArchiveBatch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req archiveBatchRequest
		if err := decodeJSON(w, r, d, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, r, d, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		n, err := d.Organizer.ArchiveBatch(r.Context(), req.BookmarkIDs)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, archiveBatchResponse{Success: true, Archived: n})
	}
}

func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		if err := decodeJSON(w, r, d, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, r, d, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		out, err := d.Organizer.Update(r.Context(), chi.URLParam(r, "id"), req.patch())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func ArchiveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := d.Organizer.Archive(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func RestoreBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := d.Organizer.Restore(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Organizer.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}
