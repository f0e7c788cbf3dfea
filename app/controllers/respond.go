package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tasktracker/app/middleware"
	"tasktracker/app/models"

	"github.com/charmbracelet/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps err onto a status code. Internal errors are logged and hidden
// from the client.
func fail(logger *log.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidTask):
		logger.Debug("rejected request", "path", r.URL.Path, "err", err, "request_id", middleware.RequestIDFrom(r.Context()))
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrTaskNotFound):
		writeErr(w, http.StatusNotFound, models.ErrTaskNotFound.Error())
	default:
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err, "request_id", middleware.RequestIDFrom(r.Context()))
		writeErr(w, http.StatusInternalServerError, "internal server error")
	}
}
