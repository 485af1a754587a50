package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/epccam/directory-api/internal/api"
	apiMiddleware "github.com/epccam/directory-api/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/afero"
)

// setupRouter builds the HTTP handler: shared middleware, health and
// metrics endpoints, uploaded files under /static and the API under /api/v1.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.Recover)
	r.Use(app.metrics.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)

	r.Get("/health", app.health)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	static := afero.NewBasePathFs(app.files, app.config.Media.RootDir)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(afero.NewHttpFs(static).Dir("/"))))

	r.Route("/api/v1", app.handlers.Routes(app.gate, app.limiter))
	return r
}

// health reports whether the database answers.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, body := http.StatusOK, "OK"
	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Warn("health check failed", slog.String("error", err.Error()))
		status, body = http.StatusServiceUnavailable, "database unavailable"
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
	}
}
