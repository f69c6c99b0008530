package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/tidymark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
)

// SearchBookmarks ranks bookmarks for ?q=. Optional: archived=true, limit=N.
func SearchBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := strings.TrimSpace(q.Get("q"))

		includeArchived := false
		if v := q.Get("archived"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, r, d, fmt.Errorf("%w: archived must be a boolean", errBadRequest))
				return
			}
			includeArchived = b
		}

		limit := 0
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				writeError(w, r, d, fmt.Errorf("%w: limit must be a positive integer", errBadRequest))
				return
			}
			limit = n
		}

		matches, err := d.Organizer.Search(r.Context(), query, includeArchived, limit)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		d.Logger.Debug("search request",
			logger.String("query", query),
			logger.Int("matches", len(matches)))
		writeJSON(w, http.StatusOK, matches)
	}
}
