package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/tidymark/internal/httpserver/deps"
)

type componentStatus struct {
	OK      bool   `json:"ok"`
	Mode    string `json:"mode,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Source  string `json:"source,omitempty"`
	NextRun string `json:"next_run,omitempty"`
	Impact  string `json:"impact,omitempty"`
	Error   string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra summarizes the state of each collaborator.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store":     checkStore(r.Context(), d),
			"generator": generatorStatus(d),
			"importer":  importerStatus(d),
			"archiver":  archiverStatus(d),
		}
		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

// determineMode: a dead store is critical, the offline generator degrades
// categorization quality.
func determineMode(components map[string]componentStatus) string {
	if st, ok := components["store"]; ok && !st.OK {
		return "critical"
	}
	if gen, ok := components["generator"]; ok && gen.Mode != "gemini" {
		return "degraded"
	}
	return "intelligent"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := d.Organizer.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.StoreBackend, Impact: "bookmarks-unavailable", Error: err.Error()}
	}
	st := componentStatus{OK: true, Mode: d.StoreBackend}
	if active, err := d.Organizer.List(ctx); err == nil {
		n := len(active)
		st.Count = &n
	}
	return st
}

func generatorStatus(d deps.Deps) componentStatus {
	if d.GeneratorMode == "gemini" {
		return componentStatus{OK: true, Mode: "gemini"}
	}
	return componentStatus{OK: true, Mode: d.GeneratorMode, Impact: "keyword-categorization-only"}
}

func importerStatus(d deps.Deps) componentStatus {
	if d.ImportTrigger == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	return componentStatus{OK: true, Mode: "yaml", Source: d.ImportFile}
}

func archiverStatus(d deps.Deps) componentStatus {
	if d.NextArchive == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	st := componentStatus{OK: true, Mode: "cron"}
	if next := d.NextArchive(); !next.IsZero() {
		st.NextRun = next.Format(time.RFC3339)
	}
	return st
}
