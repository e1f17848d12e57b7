// Package respond writes JSON responses and maps domain errors to HTTP
// status codes.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dodo-tasks/backend/internal/models"
)

// Writer renders responses. Detailed 500 messages are only exposed when
// Development is set.
type Writer struct {
	Development bool
	Logger      *slog.Logger
}

// New returns a Writer that logs through logger (slog.Default when nil).
func New(development bool, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{Development: development, Logger: logger}
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Data writes {"message": msg, "data": data}.
func Data(w http.ResponseWriter, status int, msg string, data any) {
	JSON(w, status, map[string]any{"message": msg, "data": data})
}

// Decode reads a JSON request body into v. Malformed JSON wraps
// models.ErrValidation; a body over the http.MaxBytesReader limit wraps
// models.ErrPayloadTooLarge.
func Decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", models.ErrPayloadTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: invalid request body", models.ErrValidation)
}

// Status maps err to an HTTP status and the client-facing message.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidUserData):
		return http.StatusBadRequest, "Invalid user data"
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrDuplicateUsername):
		return http.StatusBadRequest, "User already registered with this username"
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, "Authentication Failed!"
	case errors.Is(err, models.ErrInvalidPassword):
		return http.StatusUnauthorized, "Wrong password"
	case errors.Is(err, models.ErrMalformedToken):
		return http.StatusForbidden, "Invalid token structure"
	case errors.Is(err, models.ErrInvalidToken):
		return http.StatusForbidden, "Invalid token"
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "You do not own this task"
	case errors.Is(err, models.ErrUnknownUser):
		return http.StatusNotFound, "Authentication failed"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "Task not found"
	case errors.Is(err, models.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.Is(err, models.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests, please try again later"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// Error logs err and writes the mapped status and message. Unexpected
// errors are logged with full detail; the client only sees it in
// development mode.
func (rw *Writer) Error(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := Status(err)
	fields := []any{
		"operation", op,
		"status_code", status,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
		"error", err.Error(),
	}
	if status < http.StatusInternalServerError {
		rw.Logger.WarnContext(r.Context(), "request rejected", fields...)
		Message(w, status, msg)
		return
	}

	rw.Logger.ErrorContext(r.Context(), "request failed", fields...)
	body := map[string]string{"message": msg}
	if rw.Development {
		body["error"] = err.Error()
	}
	JSON(w, status, body)
}
