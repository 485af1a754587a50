package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
)

// PostgresStructureStore implements store.StructureStore.
type PostgresStructureStore struct {
	storeBase
}

// NewPostgresStructureStore creates a structure store on db.
func NewPostgresStructureStore(db store.DBTX, logger *slog.Logger) *PostgresStructureStore {
	return &PostgresStructureStore{storeBase: newStoreBase(db, logger, "structure")}
}

var _ store.StructureStore = (*PostgresStructureStore)(nil)

const structureColumns = `id, name, adresse, contacts, nombre_communicant, nombre_baptise,
	date_creation, typestructure_id, arrondissement_id, parent_id`

func scanStructure(row scanner) (domain.Structure, error) {
	var (
		st      domain.Structure
		adresse sql.NullString
		parent  sql.NullInt64
	)
	err := row.Scan(
		&st.ID,
		&st.Name,
		&adresse,
		&st.Contacts,
		&st.NombreCommunicant,
		&st.NombreBaptise,
		&st.DateCreation,
		&st.TypeStructureID,
		&st.ArrondissementID,
		&parent,
	)
	if err != nil {
		return st, err
	}
	if adresse.Valid {
		st.Adresse = &adresse.String
	}
	st.ParentID = int64Ptr(parent)
	return st, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// Create inserts st, sets its ID and reads back the creation date.
func (s *PostgresStructureStore) Create(ctx context.Context, st *domain.Structure) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO structures (name, adresse, contacts, nombre_communicant, nombre_baptise,
			typestructure_id, arrondissement_id, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, date_creation`,
		st.Name,
		nullString(st.Adresse),
		st.Contacts,
		st.NombreCommunicant,
		st.NombreBaptise,
		st.TypeStructureID,
		st.ArrondissementID,
		nullInt64(st.ParentID),
	).Scan(&st.ID, &st.DateCreation)
	if err != nil {
		return s.fail(ctx, "create", err, slog.String("name", st.Name))
	}
	s.log(ctx).Debug("structure created", slog.Int64("id", st.ID))
	return nil
}

func (s *PostgresStructureStore) Update(ctx context.Context, st *domain.Structure) error {
	return s.mutate(ctx, "update", st.ID, `
		UPDATE structures
		SET name = $2, adresse = $3, contacts = $4, nombre_communicant = $5, nombre_baptise = $6,
			typestructure_id = $7, arrondissement_id = $8, parent_id = $9
		WHERE id = $1`,
		st.ID,
		st.Name,
		nullString(st.Adresse),
		st.Contacts,
		st.NombreCommunicant,
		st.NombreBaptise,
		st.TypeStructureID,
		st.ArrondissementID,
		nullInt64(st.ParentID),
	)
}

// Delete removes the structure with its substructures and medias.
func (s *PostgresStructureStore) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete", id, `DELETE FROM structures WHERE id = $1`, id)
}

func (s *PostgresStructureStore) GetByID(ctx context.Context, id int64) (*domain.Structure, error) {
	return getOne(ctx, s.storeBase, "get", scanStructure,
		`SELECT `+structureColumns+` FROM structures WHERE id = $1`, id)
}

func (s *PostgresStructureStore) GetByName(ctx context.Context, name string) (*domain.Structure, error) {
	return getOne(ctx, s.storeBase, "get", scanStructure,
		`SELECT `+structureColumns+` FROM structures WHERE name = $1`, name)
}

func (s *PostgresStructureStore) List(ctx context.Context) ([]domain.Structure, error) {
	return getList(ctx, s.storeBase, "list", scanStructure,
		`SELECT `+structureColumns+` FROM structures ORDER BY id`)
}

func (s *PostgresStructureStore) SearchByName(ctx context.Context, fragment string) ([]domain.Structure, error) {
	return getList(ctx, s.storeBase, "search", scanStructure,
		`SELECT `+structureColumns+` FROM structures WHERE name ILIKE $1 ORDER BY id`,
		containsPattern(fragment))
}

// ListByType returns the structures of a type.
func (s *PostgresStructureStore) ListByType(ctx context.Context, typeStructureID int64) ([]domain.Structure, error) {
	return getList(ctx, s.storeBase, "list", scanStructure,
		`SELECT `+structureColumns+` FROM structures WHERE typestructure_id = $1 ORDER BY id`,
		typeStructureID)
}

// ListChildren returns the direct substructures of parentID.
func (s *PostgresStructureStore) ListChildren(ctx context.Context, parentID int64) ([]domain.Structure, error) {
	return getList(ctx, s.storeBase, "list", scanStructure,
		`SELECT `+structureColumns+` FROM structures WHERE parent_id = $1 ORDER BY id`,
		parentID)
}
