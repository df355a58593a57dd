package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/splitspend/splitspend/internal/errs"
)

// errorResponse is the generic error body: errors is populated only for
// field-validation failures.
type errorResponse struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	Timestamp string            `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{
		Status:    status,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// writeError translates a service error into its status code and body.
// Unrecognized errors become a 500 with a generic message so no internal
// detail leaks to the caller.
func writeError(w http.ResponseWriter, err error) {
	var validation *errs.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Status:    http.StatusBadRequest,
			Message:   "Validation Failed",
			Errors:    validation.Fields,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	var notFound *errs.NotFoundError
	if errors.As(err, &notFound) {
		writeErrorMessage(w, http.StatusNotFound, notFound.Message)
		return
	}

	var conflict *errs.ConflictError
	if errors.As(err, &conflict) {
		writeErrorMessage(w, http.StatusConflict, conflict.Message)
		return
	}

	var auth *errs.AuthError
	if errors.As(err, &auth) {
		writeErrorMessage(w, http.StatusUnauthorized, auth.Message)
		return
	}

	slog.Error("Unexpected error", "error", err)
	writeErrorMessage(w, http.StatusInternalServerError, "An unexpected error occurred")
}
