package handlers

import (
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/tidymark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
	"github.com/MrSnakeDoc/tidymark/internal/organizer"
)

func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := d.Organizer.Export(r.Context())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		name := fmt.Sprintf("tidymark-export-%s.json", out.ExportDate.Format("2006-01-02"))
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		writeJSON(w, http.StatusOK, out)
	}
}

// Import replaces the sections present in the body. Absent sections are
// left untouched; an empty array clears its section.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in organizer.Import
		if err := decodeJSON(w, r, d, &in); err != nil {
			writeError(w, r, d, err)
			return
		}
		if in.Empty() {
			writeError(w, r, d, fmt.Errorf("%w: no data to import", errBadRequest))
			return
		}
		if err := d.Organizer.Import(r.Context(), in); err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

func Reset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Organizer.Reset(r.Context()); err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Warn("all data reset", logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}
