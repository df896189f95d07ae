// Package response writes the versioned JSON envelope for handlers that run
// outside huma, such as middleware rejections and chi's fallback routes.
package response

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
)

// Version is bumped when the envelope shape changes.
const Version = 1

// Envelope wraps every successful response and plain error responses.
type Envelope struct {
	Version int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   string `json:"error,omitempty" doc:"Error message"`
}

// ErrorEnvelope is the envelope for coded errors.
type ErrorEnvelope struct {
	Version int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Always false"`
	Error   string `json:"error" doc:"Error message"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// NewErrorEnvelope builds a coded error envelope.
func NewErrorEnvelope(code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{
		Version: Version,
		Success: false,
		Error:   message,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Error writes a coded error envelope.
func Error(w http.ResponseWriter, status int, code domainerrors.Code, message string, logger *slog.Logger) {
	write(w, status, NewErrorEnvelope(string(code), message, nil), logger)
}

// NotFound writes a 404 for unknown routes.
func NotFound(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusNotFound, domainerrors.CodeNotFound, "resource not found", logger)
}

// MethodNotAllowed writes a 405 for known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, logger *slog.Logger) {
	Error(w, http.StatusMethodNotAllowed, domainerrors.CodeInvalidArgument, "method not allowed", logger)
}

// TooManyRequests writes a 429 asking the client to retry after a second.
func TooManyRequests(w http.ResponseWriter, logger *slog.Logger) {
	w.Header().Set("Retry-After", "1")
	Error(w, http.StatusTooManyRequests, domainerrors.CodeRateLimited, "Too many requests. Please try again later.", logger)
}

func write(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}
