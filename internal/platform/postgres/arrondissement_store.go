package postgres

import (
	"context"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
)

// PostgresArrondissementStore implements store.ArrondissementStore.
type PostgresArrondissementStore struct {
	storeBase
}

// NewPostgresArrondissementStore creates an arrondissement store on db.
func NewPostgresArrondissementStore(db store.DBTX, logger *slog.Logger) *PostgresArrondissementStore {
	return &PostgresArrondissementStore{storeBase: newStoreBase(db, logger, "arrondissement")}
}

var _ store.ArrondissementStore = (*PostgresArrondissementStore)(nil)

const arrondissementColumns = `id, name, departement_id`

func scanArrondissement(row scanner) (domain.Arrondissement, error) {
	var a domain.Arrondissement
	err := row.Scan(&a.ID, &a.Name, &a.DepartementID)
	return a, err
}

func (s *PostgresArrondissementStore) Create(ctx context.Context, a *domain.Arrondissement) error {
	id, err := s.insert(ctx,
		`INSERT INTO arrondissements (name, departement_id) VALUES ($1, $2) RETURNING id`,
		a.Name, a.DepartementID)
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

func (s *PostgresArrondissementStore) Update(ctx context.Context, a *domain.Arrondissement) error {
	return s.mutate(ctx, "update", a.ID,
		`UPDATE arrondissements SET name = $2, departement_id = $3 WHERE id = $1`,
		a.ID, a.Name, a.DepartementID)
}

func (s *PostgresArrondissementStore) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete", id, `DELETE FROM arrondissements WHERE id = $1`, id)
}

func (s *PostgresArrondissementStore) GetByID(ctx context.Context, id int64) (*domain.Arrondissement, error) {
	return getOne(ctx, s.storeBase, "get", scanArrondissement,
		`SELECT `+arrondissementColumns+` FROM arrondissements WHERE id = $1`, id)
}

func (s *PostgresArrondissementStore) GetByName(ctx context.Context, name string) (*domain.Arrondissement, error) {
	return getOne(ctx, s.storeBase, "get", scanArrondissement,
		`SELECT `+arrondissementColumns+` FROM arrondissements WHERE name = $1`, name)
}

func (s *PostgresArrondissementStore) List(ctx context.Context) ([]domain.Arrondissement, error) {
	return getList(ctx, s.storeBase, "list", scanArrondissement,
		`SELECT `+arrondissementColumns+` FROM arrondissements ORDER BY id`)
}

func (s *PostgresArrondissementStore) SearchByName(ctx context.Context, fragment string) ([]domain.Arrondissement, error) {
	return getList(ctx, s.storeBase, "search", scanArrondissement,
		`SELECT `+arrondissementColumns+` FROM arrondissements WHERE name ILIKE $1 ORDER BY id`,
		containsPattern(fragment))
}

// ListByDepartement returns the arrondissements of a departement.
func (s *PostgresArrondissementStore) ListByDepartement(ctx context.Context, departementID int64) ([]domain.Arrondissement, error) {
	return getList(ctx, s.storeBase, "list", scanArrondissement,
		`SELECT `+arrondissementColumns+` FROM arrondissements WHERE departement_id = $1 ORDER BY id`,
		departementID)
}
