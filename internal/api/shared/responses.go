package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/epccam/directory-api/internal/redact"
)

// Envelope is the body of every JSON response. Error holds the HTTP status
// code, a field→message map for rejected payloads, or an AuthError.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   any    `json:"error,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// AuthError is the error object of authentication gate failures.
type AuthError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel logs a 4xx response at WARN instead of DEBUG.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// RespondWithJSON writes body as JSON with the given status code.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode JSON response", "error", err)
	}
}

// RespondWithData writes a successful envelope.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	RespondWithJSON(w, r, status, Envelope{Success: true, Data: data, Message: message})
}

// RespondWithError writes a failed envelope whose error is the status code.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithErrorAndLog(w, r, status, message, status, nil)
}

// RespondWithErrorAndLog writes a failed envelope carrying only userMessage
// and detail, and logs the redacted cause. 5xx responses are logged at ERROR,
// 429 and elevated 4xx at WARN, everything else at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	detail any,
	cause error,
	opts ...ResponseOption,
) {
	traceID := GetTraceID(r.Context())

	attrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if cause != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(cause)),
			slog.String("error_type", fmt.Sprintf("%T", cause)))
	}

	var o responseOptions
	for _, opt := range opts {
		opt(&o)
	}
	level := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status == http.StatusTooManyRequests:
		level = slog.LevelWarn
	case o.elevateLogLevel && status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}
	slog.LogAttrs(r.Context(), level, "API error response", attrs...)

	RespondWithJSON(w, r, status, Envelope{
		Success: false,
		Message: userMessage,
		Error:   detail,
		TraceID: traceID,
	})
}
