package postgres

import (
	"context"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
)

// PostgresFonctionStore implements store.FonctionStore.
type PostgresFonctionStore struct {
	storeBase
}

// NewPostgresFonctionStore creates a fonction store on db.
func NewPostgresFonctionStore(db store.DBTX, logger *slog.Logger) *PostgresFonctionStore {
	return &PostgresFonctionStore{storeBase: newStoreBase(db, logger, "fonction")}
}

var _ store.FonctionStore = (*PostgresFonctionStore)(nil)

const fonctionColumns = `id, name`

func scanFonction(row scanner) (domain.Fonction, error) {
	var f domain.Fonction
	err := row.Scan(&f.ID, &f.Name)
	return f, err
}

func (s *PostgresFonctionStore) Create(ctx context.Context, f *domain.Fonction) error {
	id, err := s.insert(ctx, `INSERT INTO fonctions (name) VALUES ($1) RETURNING id`, f.Name)
	if err != nil {
		return err
	}
	f.ID = id
	return nil
}

func (s *PostgresFonctionStore) Update(ctx context.Context, f *domain.Fonction) error {
	return s.mutate(ctx, "update", f.ID, `UPDATE fonctions SET name = $2 WHERE id = $1`, f.ID, f.Name)
}

func (s *PostgresFonctionStore) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete", id, `DELETE FROM fonctions WHERE id = $1`, id)
}

func (s *PostgresFonctionStore) GetByID(ctx context.Context, id int64) (*domain.Fonction, error) {
	return getOne(ctx, s.storeBase, "get", scanFonction,
		`SELECT `+fonctionColumns+` FROM fonctions WHERE id = $1`, id)
}

func (s *PostgresFonctionStore) GetByName(ctx context.Context, name string) (*domain.Fonction, error) {
	return getOne(ctx, s.storeBase, "get", scanFonction,
		`SELECT `+fonctionColumns+` FROM fonctions WHERE name = $1`, name)
}

func (s *PostgresFonctionStore) List(ctx context.Context) ([]domain.Fonction, error) {
	return getList(ctx, s.storeBase, "list", scanFonction,
		`SELECT `+fonctionColumns+` FROM fonctions ORDER BY id`)
}

func (s *PostgresFonctionStore) SearchByName(ctx context.Context, fragment string) ([]domain.Fonction, error) {
	return getList(ctx, s.storeBase, "search", scanFonction,
		`SELECT `+fonctionColumns+` FROM fonctions WHERE name ILIKE $1 ORDER BY id`,
		containsPattern(fragment))
}
