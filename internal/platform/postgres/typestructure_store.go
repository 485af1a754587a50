package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
)

// PostgresTypeStructureStore implements store.TypeStructureStore. Fonction
// links live in typestructure_fonctions.
type PostgresTypeStructureStore struct {
	storeBase
}

// NewPostgresTypeStructureStore creates a type-structure store on db.
func NewPostgresTypeStructureStore(db store.DBTX, logger *slog.Logger) *PostgresTypeStructureStore {
	return &PostgresTypeStructureStore{storeBase: newStoreBase(db, logger, "typestructure")}
}

var _ store.TypeStructureStore = (*PostgresTypeStructureStore)(nil)

const typeStructureColumns = `id, name, parent_id`

func scanTypeStructure(row scanner) (domain.TypeStructure, error) {
	var (
		t      domain.TypeStructure
		parent sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.Name, &parent); err != nil {
		return t, err
	}
	t.ParentID = int64Ptr(parent)
	return t, nil
}

func scanTypeStructureFonction(row scanner) (domain.TypeStructureFonction, error) {
	var l domain.TypeStructureFonction
	err := row.Scan(&l.TypeStructureID, &l.FonctionID, &l.NombrePosition)
	return l, err
}

func (s *PostgresTypeStructureStore) Create(ctx context.Context, t *domain.TypeStructure) error {
	id, err := s.insert(ctx,
		`INSERT INTO typestructures (name, parent_id) VALUES ($1, $2) RETURNING id`,
		t.Name, nullInt64(t.ParentID))
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (s *PostgresTypeStructureStore) Update(ctx context.Context, t *domain.TypeStructure) error {
	return s.mutate(ctx, "update", t.ID,
		`UPDATE typestructures SET name = $2, parent_id = $3 WHERE id = $1`,
		t.ID, t.Name, nullInt64(t.ParentID))
}

// Delete removes the type. Child types are removed with it by the schema.
func (s *PostgresTypeStructureStore) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete", id, `DELETE FROM typestructures WHERE id = $1`, id)
}

func (s *PostgresTypeStructureStore) GetByID(ctx context.Context, id int64) (*domain.TypeStructure, error) {
	return getOne(ctx, s.storeBase, "get", scanTypeStructure,
		`SELECT `+typeStructureColumns+` FROM typestructures WHERE id = $1`, id)
}

func (s *PostgresTypeStructureStore) GetByName(ctx context.Context, name string) (*domain.TypeStructure, error) {
	return getOne(ctx, s.storeBase, "get", scanTypeStructure,
		`SELECT `+typeStructureColumns+` FROM typestructures WHERE name = $1`, name)
}

func (s *PostgresTypeStructureStore) List(ctx context.Context) ([]domain.TypeStructure, error) {
	return getList(ctx, s.storeBase, "list", scanTypeStructure,
		`SELECT `+typeStructureColumns+` FROM typestructures ORDER BY id`)
}

func (s *PostgresTypeStructureStore) SearchByName(ctx context.Context, fragment string) ([]domain.TypeStructure, error) {
	return getList(ctx, s.storeBase, "search", scanTypeStructure,
		`SELECT `+typeStructureColumns+` FROM typestructures WHERE name ILIKE $1 ORDER BY id`,
		containsPattern(fragment))
}

// LinkFonction inserts the association. The primary key on the pair turns a
// second link into store.ErrDuplicate.
func (s *PostgresTypeStructureStore) LinkFonction(ctx context.Context, link *domain.TypeStructureFonction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO typestructure_fonctions (typestructure_id, fonction_id, nombre_position)
		VALUES ($1, $2, $3)`,
		link.TypeStructureID, link.FonctionID, link.NombrePosition)
	if err != nil {
		return s.fail(ctx, "link", err,
			slog.Int64("typestructure_id", link.TypeStructureID),
			slog.Int64("fonction_id", link.FonctionID))
	}
	return nil
}

// UnlinkFonction removes the association.
func (s *PostgresTypeStructureStore) UnlinkFonction(ctx context.Context, typeStructureID, fonctionID int64) error {
	return s.mutate(ctx, "unlink", typeStructureID,
		`DELETE FROM typestructure_fonctions WHERE typestructure_id = $1 AND fonction_id = $2`,
		typeStructureID, fonctionID)
}

// GetFonctionLink returns the association of the pair.
func (s *PostgresTypeStructureStore) GetFonctionLink(ctx context.Context, typeStructureID, fonctionID int64) (*domain.TypeStructureFonction, error) {
	return getOne(ctx, s.storeBase, "get link", scanTypeStructureFonction, `
		SELECT typestructure_id, fonction_id, nombre_position
		FROM typestructure_fonctions
		WHERE typestructure_id = $1 AND fonction_id = $2`,
		typeStructureID, fonctionID)
}

// ListFonctions returns the fonction links of a type.
func (s *PostgresTypeStructureStore) ListFonctions(ctx context.Context, typeStructureID int64) ([]domain.TypeStructureFonction, error) {
	return getList(ctx, s.storeBase, "list links", scanTypeStructureFonction, `
		SELECT typestructure_id, fonction_id, nombre_position
		FROM typestructure_fonctions
		WHERE typestructure_id = $1
		ORDER BY fonction_id`,
		typeStructureID)
}
