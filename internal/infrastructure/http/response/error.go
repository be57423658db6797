package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rezkam/fieldsched/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []ErrorField `json:"details,omitempty"`
}

// ErrorField describes a field-specific error.
type ErrorField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// BadRequest sends a 400 Bad Request error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "INVALID_REQUEST", message, http.StatusBadRequest)
}

// ValidationError sends a 400 validation error with field details.
func ValidationError(w http.ResponseWriter, field, issue string) {
	write(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: "validation failed",
			Details: []ErrorField{
				{Field: field, Issue: issue},
			},
		},
	})
}

// NotFound sends a 404 Not Found error.
func NotFound(w http.ResponseWriter, resource string) {
	Error(w, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

// Unavailable sends a 503 Service Unavailable error.
func Unavailable(w http.ResponseWriter, message string) {
	Error(w, "UNAVAILABLE", message, http.StatusServiceUnavailable)
}

// InternalError sends a 500 Internal Server Error.
// The error is logged server-side; the client only sees a generic message.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "Internal server error", "error", err)
	}
	Error(w, "INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError)
}

// Error sends a generic error response.
func Error(w http.ResponseWriter, code, message string, statusCode int) {
	write(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// FromDomainError maps domain errors to HTTP responses.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Validation errors (400)
	case errors.Is(err, domain.ErrInvalidMode):
		ValidationError(w, "mode", "must be one of day, week, month, year")
	case errors.Is(err, domain.ErrInvalidAnchor):
		ValidationError(w, "anchor", "does not match the calendar mode")
	case errors.Is(err, domain.ErrInvalidSortOrder):
		ValidationError(w, "sort", "must be nearest or farthest")
	case errors.Is(err, domain.ErrUnknownAction):
		ValidationError(w, "action", err.Error())
	case errors.Is(err, domain.ErrInvalidInstant):
		ValidationError(w, "date", "invalid date")
	case errors.Is(err, domain.ErrInvalidTaskStatus):
		ValidationError(w, "status", "invalid task status")

	// Not found errors (404)
	case errors.Is(err, domain.ErrTaskNotFound):
		NotFound(w, "task")

	// Upstream errors (503)
	case errors.Is(err, domain.ErrSourceUnavailable):
		Unavailable(w, "schedule data source unavailable")

	default:
		InternalError(w, r, err)
	}
}
