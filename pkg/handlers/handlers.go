// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ServerErrorMessage replaces the message of 5xx responses so internal
// failure details stay in the logs.
const ServerErrorMessage = "an unexpected error occurred"

// RespondError logs err and writes an ErrorResponse with the given status code.
// Server errors log at error level, client errors at warn.
func RespondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, err error) {
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "path", r.URL.Path, "error", err)
		message = ServerErrorMessage
	} else {
		logger.Warn("request rejected", "status", status, "path", r.URL.Path, "error", err)
	}

	RespondJSON(w, status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      r.URL.Path,
	})
}
