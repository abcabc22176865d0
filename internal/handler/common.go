package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/faultline/faultline/internal/service"
	"github.com/faultline/faultline/internal/store"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// writeStoreError maps store and service errors onto HTTP statuses.
// Unavailability is deliberately distinct from not-found: 503 means the
// store could not answer, 404 means the key is gone or never existed.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Job not found")
	case errors.Is(err, store.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Store unavailable, retry later")
	case errors.Is(err, service.ErrBusy):
		writeError(w, http.StatusServiceUnavailable, "Analysis queue is full, retry later")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
