package middleware

import (
	"log/slog"
	"net/http"

	"github.com/epccam/directory-api/internal/api/shared"
	"github.com/epccam/directory-api/internal/platform/logger"
)

// NewTraceMiddleware gives every request a trace ID and a request-scoped
// logger carrying it. Apply it early so later handlers can log with the ID.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			log := base.With(slog.String("trace_id", shared.GetTraceID(ctx)))

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(logger.WithLogger(ctx, log)))
		})
	}
}
