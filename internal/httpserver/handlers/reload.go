package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/tidymark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tidymark/internal/httpserver/mw"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
)

type reloadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Reload asks the YAML importer for an immediate run.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ImportTrigger == nil {
			mw.WriteJSONError(w, http.StatusNotFound, "import is not configured")
			return
		}

		select {
		case d.ImportTrigger <- struct{}{}:
			d.Logger.Info("manual import triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, reloadResponse{Success: true, Message: "Import triggered"})
		default:
			d.Logger.Warn("import already pending",
				logger.String("remote_ip", r.RemoteAddr))
			mw.WriteJSONError(w, http.StatusTooManyRequests, "Import already in progress, please wait")
		}
	}
}
