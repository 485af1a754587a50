package postgres

import (
	"context"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
)

// PostgresRegionStore implements store.RegionStore.
type PostgresRegionStore struct {
	storeBase
}

// NewPostgresRegionStore creates a region store on db. If logger is nil the
// default logger is used.
func NewPostgresRegionStore(db store.DBTX, logger *slog.Logger) *PostgresRegionStore {
	return &PostgresRegionStore{storeBase: newStoreBase(db, logger, "region")}
}

var _ store.RegionStore = (*PostgresRegionStore)(nil)

const regionColumns = `id, name`

func scanRegion(row scanner) (domain.Region, error) {
	var r domain.Region
	err := row.Scan(&r.ID, &r.Name)
	return r, err
}

// Create inserts r and sets its ID.
func (s *PostgresRegionStore) Create(ctx context.Context, r *domain.Region) error {
	id, err := s.insert(ctx, `INSERT INTO regions (name) VALUES ($1) RETURNING id`, r.Name)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// Update replaces the name of r.
func (s *PostgresRegionStore) Update(ctx context.Context, r *domain.Region) error {
	return s.mutate(ctx, "update", r.ID, `UPDATE regions SET name = $2 WHERE id = $1`, r.ID, r.Name)
}

// Delete removes the region. A region still referenced by a departement
// yields store.ErrInvalidEntity.
func (s *PostgresRegionStore) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete", id, `DELETE FROM regions WHERE id = $1`, id)
}

// GetByID returns the region with the given id.
func (s *PostgresRegionStore) GetByID(ctx context.Context, id int64) (*domain.Region, error) {
	return getOne(ctx, s.storeBase, "get", scanRegion,
		`SELECT `+regionColumns+` FROM regions WHERE id = $1`, id)
}

// GetByName returns the region named exactly name.
func (s *PostgresRegionStore) GetByName(ctx context.Context, name string) (*domain.Region, error) {
	return getOne(ctx, s.storeBase, "get", scanRegion,
		`SELECT `+regionColumns+` FROM regions WHERE name = $1`, name)
}

// List returns every region.
func (s *PostgresRegionStore) List(ctx context.Context) ([]domain.Region, error) {
	return getList(ctx, s.storeBase, "list", scanRegion,
		`SELECT `+regionColumns+` FROM regions ORDER BY id`)
}

// SearchByName returns regions whose name contains fragment, ignoring case.
func (s *PostgresRegionStore) SearchByName(ctx context.Context, fragment string) ([]domain.Region, error) {
	return getList(ctx, s.storeBase, "search", scanRegion,
		`SELECT `+regionColumns+` FROM regions WHERE name ILIKE $1 ORDER BY id`, containsPattern(fragment))
}
