package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/epccam/directory-api/internal/platform/postgres"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
)

// MigrationTableName is the table goose records applied versions in.
const MigrationTableName = "schema_migrations"

// migrationCommands lists the commands accepted by -migrate.
var migrationCommands = []string{"up", "down", "reset", "status", "version"}

// slogGooseLogger forwards goose output to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level without exiting; the failing goose call
// returns its error to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// migrator applies the embedded schema migrations.
type migrator struct {
	db     *sql.DB
	logger *slog.Logger
}

func newMigrator(db *sql.DB, l *slog.Logger) *migrator {
	return &migrator{db: db, logger: l.With(slog.String("component", "migrations"))}
}

// run executes one goose command against the embedded migrations.
func (m *migrator) run(ctx context.Context, command string) error {
	log := m.logger.With(
		slog.String("correlation_id", uuid.New().String()),
		slog.String("command", command))

	var exec func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error
	switch command {
	case "up":
		exec = goose.UpContext
	case "down":
		exec = goose.DownContext
	case "reset":
		exec = goose.ResetContext
	case "status":
		exec = goose.StatusContext
	case "version":
		exec = goose.VersionContext
	default:
		return fmt.Errorf("unknown migration command %q (expected one of %v)", command, migrationCommands)
	}

	goose.SetBaseFS(postgres.Migrations)
	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	before := m.version(ctx, log)
	start := time.Now()
	if err := exec(ctx, m.db, postgres.MigrationsDir); err != nil {
		log.Error("migration command failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}

	log.Info("migration command completed",
		slog.Int64("previous_version", before),
		slog.Int64("version", m.version(ctx, log)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// version returns the applied schema version, 0 for a fresh database.
func (m *migrator) version(ctx context.Context, log *slog.Logger) int64 {
	var v int64
	err := m.db.QueryRowContext(ctx,
		"SELECT version_id FROM "+MigrationTableName+" WHERE is_applied ORDER BY id DESC LIMIT 1").Scan(&v)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Debug("schema version unavailable", slog.String("error", err.Error()))
	}
	return v
}
