// Package handler is the HTTP layer: it parses requests, calls services and
// writes JSON responses. No business rules live here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prasetya/safestate/internal/apperror"
)

// ErrorResponse is the standard error shape for every API endpoint:
//
//	{"error": "not_found", "message": "property not found with id x"}
//
// One shape regardless of status code, so clients parse errors one way.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable kind ("conflict", "not_found", ...)
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response. Headers and status must go out before
// the first body byte, hence the fixed order here.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into an HTTP status.
//
// The mapping lives here and not in the services: the service layer knows
// apperror sentinels, not status codes. errors.Is walks the wrap chain, so
// a service error like fmt.Errorf("...: %w", apperror.EmailConflict(...))
// still lands on 409.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		case errors.Is(err, apperror.ErrUnavailable):
			status = http.StatusServiceUnavailable
			errorType = "unavailable"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error: generic 500, never the raw message. Internal errors
	// can carry SQL fragments or file paths.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
