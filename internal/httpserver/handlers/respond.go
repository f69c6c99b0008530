package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/tidymark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tidymark/internal/httpserver/mw"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
	"github.com/MrSnakeDoc/tidymark/internal/organizer"
)

const defaultMaxBody = 10 << 20

// errBadRequest marks malformed or invalid request bodies.
var errBadRequest = errors.New("bad request")

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads one JSON document from the body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, d deps.Deps, dst any) error {
	limit := d.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBody
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// writeError maps err to a status and writes {"success":false,"message":...}.
// 5xx details stay in the log.
func writeError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	status, msg := http.StatusInternalServerError, "Something went wrong!"
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, organizer.ErrInvalid):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, organizer.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, organizer.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	}

	fields := []logger.Field{
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.Int("status", status),
		logger.String("request_id", middleware.GetReqID(r.Context())),
		logger.Error(err),
	}
	if status >= http.StatusInternalServerError {
		d.Logger.Error("request failed", fields...)
	} else {
		d.Logger.Debug("request rejected", fields...)
	}
	mw.WriteJSONError(w, status, msg)
}
