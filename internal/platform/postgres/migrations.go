package postgres

import "embed"

// MigrationsDir is the directory of Migrations holding the goose SQL files.
const MigrationsDir = "migrations"

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

// Migrations embeds the schema migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS
