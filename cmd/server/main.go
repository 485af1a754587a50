// Package main is the entry point of the EPCCAM directory API server.
//
// Without flags it applies pending migrations (when auto_migrate is set) and
// serves the API. With -migrate it runs a single goose command and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/epccam/directory-api/internal/config"
	"github.com/epccam/directory-api/internal/platform/logger"
)

func main() {
	migrate := flag.String("migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	configDir := flag.String("config", ".", "directory holding config.yaml and .env")
	flag.Parse()

	if err := run(*configDir, *migrate); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(configDir, migrateCmd string) error {
	cfg, err := config.LoadFrom(configDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database", maskDatabaseURL(cfg.Database.URL)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}()

	m := newMigrator(db, l)
	if migrateCmd != "" {
		return m.run(ctx, migrateCmd)
	}
	if cfg.Database.AutoMigrate {
		if err := m.run(ctx, "up"); err != nil {
			return err
		}
	}

	app, err := newApplication(cfg, l, db, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
