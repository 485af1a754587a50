package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/epccam/directory-api/internal/api"
	"github.com/epccam/directory-api/internal/api/middleware"
	"github.com/epccam/directory-api/internal/config"
	"github.com/epccam/directory-api/internal/platform/media"
	"github.com/epccam/directory-api/internal/platform/postgres"
	"github.com/epccam/directory-api/internal/service"
	"github.com/epccam/directory-api/internal/service/auth"
	"github.com/epccam/directory-api/internal/service/directory"
	"github.com/spf13/afero"
)

// application holds the shared dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// files is the filesystem uploads are written to and served from.
	files afero.Fs

	handlers api.Handlers
	gate     *middleware.AuthMiddleware
	limiter  *middleware.RateLimiter
	metrics  *middleware.Metrics
}

// newApplication wires stores, services and handlers. A nil fsys means the
// operating system filesystem.
func newApplication(cfg *config.Config, l *slog.Logger, db *sql.DB, fsys afero.Fs) (*application, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	app := &application{
		config:  cfg,
		logger:  l,
		db:      db,
		files:   fsys,
		limiter: middleware.NewRateLimiter(cfg.Auth.LoginRatePerMinute),
		metrics: middleware.NewMetrics(),
	}

	tokens, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	l.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))
	app.gate = middleware.NewAuthMiddleware(tokens, l)

	uow := postgres.NewUnitOfWork(db, l)
	storage := media.NewStorage(fsys, cfg.Media.RootDir, cfg.Media.AvatarMaxDimension, l)
	maxUpload := int64(cfg.Media.MaxUploadMB) << 20

	accounts, err := service.NewAccountService(uow, auth.NewBcryptHasher(cfg.Auth.BCryptCost), tokens, cfg.Auth.DefaultRole, l)
	if err != nil {
		return nil, err
	}
	regions, err := directory.NewRegionService(uow, l)
	if err != nil {
		return nil, err
	}
	departements, err := directory.NewDepartementService(uow, l)
	if err != nil {
		return nil, err
	}
	arrondissements, err := directory.NewArrondissementService(uow, l)
	if err != nil {
		return nil, err
	}
	fonctions, err := directory.NewFonctionService(uow, l)
	if err != nil {
		return nil, err
	}
	types, err := directory.NewTypeStructureService(uow, l)
	if err != nil {
		return nil, err
	}
	structures, err := directory.NewStructureService(uow, storage, l)
	if err != nil {
		return nil, err
	}
	membres, err := directory.NewMembreService(uow, storage, l)
	if err != nil {
		return nil, err
	}

	app.handlers = api.Handlers{
		Auth:            api.NewAuthHandler(accounts, l),
		Regions:         api.NewRegionHandler(regions),
		Departements:    api.NewDepartementHandler(departements),
		Arrondissements: api.NewArrondissementHandler(arrondissements),
		Fonctions:       api.NewFonctionHandler(fonctions),
		TypeStructures:  api.NewTypeStructureHandler(types),
		Structures:      api.NewStructureHandler(structures, maxUpload),
		Membres:         api.NewMembreHandler(membres, maxUpload),
	}

	l.Info("application initialized")
	return app, nil
}

// Run serves the API until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
