package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/epccam/directory-api/internal/store"
)

// NewRepos binds every PostgreSQL store to db, which may be the pool or a
// transaction.
func NewRepos(db store.DBTX, logger *slog.Logger) store.Repos {
	return store.Repos{
		Regions:         NewPostgresRegionStore(db, logger),
		Departements:    NewPostgresDepartementStore(db, logger),
		Arrondissements: NewPostgresArrondissementStore(db, logger),
		Fonctions:       NewPostgresFonctionStore(db, logger),
		TypeStructures:  NewPostgresTypeStructureStore(db, logger),
		Structures:      NewPostgresStructureStore(db, logger),
		Membres:         NewPostgresMembreStore(db, logger),
		Affectations:    NewPostgresAffectationStore(db, logger),
		Medias:          NewPostgresMediaStore(db, logger),
		Roles:           NewPostgresRoleStore(db, logger),
		Users:           NewPostgresUserStore(db, logger),
	}
}

// UnitOfWork implements store.UnitOfWork on a connection pool.
type UnitOfWork struct {
	db     *sql.DB
	logger *slog.Logger
	repos  store.Repos
}

// NewUnitOfWork creates a UnitOfWork on db.
func NewUnitOfWork(db *sql.DB, logger *slog.Logger) *UnitOfWork {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UnitOfWork{db: db, logger: logger, repos: NewRepos(db, logger)}
}

var _ store.UnitOfWork = (*UnitOfWork)(nil)

// Repos returns stores bound to the pool.
func (u *UnitOfWork) Repos() store.Repos {
	return u.repos
}

// WithinTx runs fn with stores bound to a single transaction.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, r store.Repos) error) error {
	return store.RunInTransaction(ctx, u.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, NewRepos(tx, u.logger))
	})
}
