package postgres

import (
	"context"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
)

// PostgresDepartementStore implements store.DepartementStore.
type PostgresDepartementStore struct {
	storeBase
}

// NewPostgresDepartementStore creates a departement store on db.
func NewPostgresDepartementStore(db store.DBTX, logger *slog.Logger) *PostgresDepartementStore {
	return &PostgresDepartementStore{storeBase: newStoreBase(db, logger, "departement")}
}

var _ store.DepartementStore = (*PostgresDepartementStore)(nil)

const departementColumns = `id, name, region_id`

func scanDepartement(row scanner) (domain.Departement, error) {
	var d domain.Departement
	err := row.Scan(&d.ID, &d.Name, &d.RegionID)
	return d, err
}

// Create inserts d and sets its ID.
func (s *PostgresDepartementStore) Create(ctx context.Context, d *domain.Departement) error {
	id, err := s.insert(ctx,
		`INSERT INTO departements (name, region_id) VALUES ($1, $2) RETURNING id`,
		d.Name, d.RegionID)
	if err != nil {
		return err
	}
	d.ID = id
	return nil
}

// Update replaces the name and region of d.
func (s *PostgresDepartementStore) Update(ctx context.Context, d *domain.Departement) error {
	return s.mutate(ctx, "update", d.ID,
		`UPDATE departements SET name = $2, region_id = $3 WHERE id = $1`,
		d.ID, d.Name, d.RegionID)
}

// Delete removes the departement.
func (s *PostgresDepartementStore) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete", id, `DELETE FROM departements WHERE id = $1`, id)
}

// GetByID returns the departement with the given id.
func (s *PostgresDepartementStore) GetByID(ctx context.Context, id int64) (*domain.Departement, error) {
	return getOne(ctx, s.storeBase, "get", scanDepartement,
		`SELECT `+departementColumns+` FROM departements WHERE id = $1`, id)
}

// GetByName returns the departement named exactly name.
func (s *PostgresDepartementStore) GetByName(ctx context.Context, name string) (*domain.Departement, error) {
	return getOne(ctx, s.storeBase, "get", scanDepartement,
		`SELECT `+departementColumns+` FROM departements WHERE name = $1`, name)
}

// List returns every departement.
func (s *PostgresDepartementStore) List(ctx context.Context) ([]domain.Departement, error) {
	return getList(ctx, s.storeBase, "list", scanDepartement,
		`SELECT `+departementColumns+` FROM departements ORDER BY id`)
}

// SearchByName returns departements whose name contains fragment.
func (s *PostgresDepartementStore) SearchByName(ctx context.Context, fragment string) ([]domain.Departement, error) {
	return getList(ctx, s.storeBase, "search", scanDepartement,
		`SELECT `+departementColumns+` FROM departements WHERE name ILIKE $1 ORDER BY id`,
		containsPattern(fragment))
}

// ListByRegion returns the departements of a region.
func (s *PostgresDepartementStore) ListByRegion(ctx context.Context, regionID int64) ([]domain.Departement, error) {
	return getList(ctx, s.storeBase, "list", scanDepartement,
		`SELECT `+departementColumns+` FROM departements WHERE region_id = $1 ORDER BY id`, regionID)
}
