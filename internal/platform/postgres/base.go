package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/epccam/directory-api/internal/platform/logger"
	"github.com/epccam/directory-api/internal/redact"
	"github.com/epccam/directory-api/internal/store"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// storeBase holds what every table store needs: a connection or transaction,
// a component logger and the entity name used in errors.
type storeBase struct {
	db     store.DBTX
	logger *slog.Logger
	entity string
}

func newStoreBase(db store.DBTX, l *slog.Logger, entity string) storeBase {
	if db == nil {
		panic("db cannot be nil")
	}
	if l == nil {
		l = slog.Default()
	}
	return storeBase{
		db:     db,
		logger: l.With(slog.String("component", entity+"_store")),
		entity: entity,
	}
}

func (b storeBase) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, b.logger)
}

// fail maps err to a store error, logs it at a level matching its kind and
// wraps it with the entity and operation.
func (b storeBase) fail(ctx context.Context, op string, err error, attrs ...any) error {
	mapped := MapError(err)
	log := b.log(ctx)
	attrs = append(attrs, slog.String("operation", op))
	switch {
	case errors.Is(mapped, store.ErrNotFound):
		log.Debug(b.entity+" not found", attrs...)
	case errors.Is(mapped, store.ErrDuplicate), errors.Is(mapped, store.ErrInvalidEntity):
		log.Warn(b.entity+" constraint violation", append(attrs, slog.String("error", redact.Error(err)))...)
	default:
		log.Error("failed to "+op+" "+b.entity, append(attrs, slog.String("error", redact.Error(err)))...)
	}
	return store.NewStoreError(b.entity, op, mapped)
}

// insert runs an INSERT ... RETURNING id and returns the new id.
func (b storeBase) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := b.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, b.fail(ctx, "create", err)
	}
	b.log(ctx).Debug(b.entity+" created", slog.Int64("id", id))
	return id, nil
}

// mutate runs an UPDATE or DELETE that must touch exactly the row id.
func (b storeBase) mutate(ctx context.Context, op string, id int64, query string, args ...any) error {
	result, err := b.db.ExecContext(ctx, query, args...)
	if err != nil {
		return b.fail(ctx, op, err, slog.Int64("id", id))
	}
	if err := CheckRowsAffected(result, b.entity); err != nil {
		return b.fail(ctx, op, err, slog.Int64("id", id))
	}
	b.log(ctx).Debug(b.entity+" "+op+"d", slog.Int64("id", id))
	return nil
}

// getOne scans the single row returned by query.
func getOne[T any](ctx context.Context, b storeBase, op string, scan func(scanner) (T, error), query string, args ...any) (*T, error) {
	v, err := scan(b.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, b.fail(ctx, op, err)
	}
	return &v, nil
}

// getList scans every row returned by query. An empty result is an empty,
// non-nil slice.
func getList[T any](ctx context.Context, b storeBase, op string, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, b.fail(ctx, op, err)
	}
	defer func() { _ = rows.Close() }()

	items := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, b.fail(ctx, op, err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, b.fail(ctx, op, err)
	}
	return items, nil
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
