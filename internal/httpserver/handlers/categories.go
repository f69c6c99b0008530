package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tidymark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
)

func ListCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Organizer.Categories())
	}
}

func RefreshCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := d.Organizer.RefreshCategories(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func ListCustomCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Organizer.CustomCategories())
	}
}

func AddCustomCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req customCategoryRequest
		if err := decodeJSON(w, r, d, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, r, d, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		c, err := d.Organizer.AddCustomCategory(req.Name)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Info("custom category added",
			logger.String("id", c.ID),
			logger.String("name", c.Name))
		writeJSON(w, http.StatusCreated, c)
	}
}

func DeleteCustomCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Organizer.DeleteCustomCategory(chi.URLParam(r, "id")); err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

func Suggestions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := d.Organizer.Suggestions(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
