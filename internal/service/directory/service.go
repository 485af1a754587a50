package directory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/epccam/directory-api/internal/platform/logger"
	"github.com/epccam/directory-api/internal/store"
)

// ErrNilUnitOfWork is returned by constructors given no unit of work.
var ErrNilUnitOfWork = errors.New("directory: unit of work cannot be nil")

// base holds what every service needs.
type base struct {
	uow    store.UnitOfWork
	logger *slog.Logger
}

func newBase(uow store.UnitOfWork, l *slog.Logger, component string) (base, error) {
	if uow == nil {
		return base{}, ErrNilUnitOfWork
	}
	if l == nil {
		l = slog.Default()
	}
	return base{uow: uow, logger: l.With(slog.String("component", component))}, nil
}

func (b base) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, b.logger)
}

func (b base) views() views {
	return views{r: b.uow.Repos()}
}

// nameTaken reports whether name is used by a row other than self. find is a
// GetByName method; a zero self means no row is excluded.
func nameTaken[T any](ctx context.Context, find func(context.Context, string) (*T, error), id func(*T) int64, name string, self int64) (bool, error) {
	existing, err := find(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return id(existing) != self, nil
}
