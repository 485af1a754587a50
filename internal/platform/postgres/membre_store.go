package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
)

// PostgresMembreStore implements store.MembreStore.
type PostgresMembreStore struct {
	storeBase
}

// NewPostgresMembreStore creates a membre store on db.
func NewPostgresMembreStore(db store.DBTX, logger *slog.Logger) *PostgresMembreStore {
	return &PostgresMembreStore{storeBase: newStoreBase(db, logger, "membre")}
}

var _ store.MembreStore = (*PostgresMembreStore)(nil)

const membreColumns = `id, fullname, genre, date_of_birth, place_of_birth, mother, father,
	marital_status, conjoint, nb_enfant, contacts, adresse, arrondissement_id, user_id,
	date_consecration, consecration_structure_id, avatar_id, created_at, updated_at`

func scanMembre(row scanner) (domain.Membre, error) {
	var (
		m                domain.Membre
		genre, status    string
		dateConsecration sql.NullTime
		consecration     sql.NullInt64
		avatar           sql.NullInt64
		updatedAt        sql.NullTime
	)
	err := row.Scan(
		&m.ID,
		&m.FullName,
		&genre,
		&m.DateOfBirth,
		&m.PlaceOfBirth,
		&m.Mother,
		&m.Father,
		&status,
		&m.Conjoint,
		&m.NbEnfant,
		&m.Contacts,
		&m.Adresse,
		&m.ArrondissementID,
		&m.UserID,
		&dateConsecration,
		&consecration,
		&avatar,
		&m.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return m, err
	}
	m.Genre = domain.Genre(genre)
	m.MaritalStatus = domain.MaritalStatus(status)
	if dateConsecration.Valid {
		m.DateConsecration = &dateConsecration.Time
	}
	m.ConsecrationStructureID = int64Ptr(consecration)
	m.AvatarID = int64Ptr(avatar)
	if updatedAt.Valid {
		m.UpdatedAt = &updatedAt.Time
	}
	return m, nil
}

// Create inserts m and sets its ID and creation time.
func (s *PostgresMembreStore) Create(ctx context.Context, m *domain.Membre) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO membres (fullname, genre, date_of_birth, place_of_birth, mother, father,
			marital_status, conjoint, nb_enfant, contacts, adresse, arrondissement_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`,
		m.FullName,
		string(m.Genre),
		m.DateOfBirth,
		m.PlaceOfBirth,
		m.Mother,
		m.Father,
		string(m.MaritalStatus),
		m.Conjoint,
		m.NbEnfant,
		m.Contacts,
		m.Adresse,
		m.ArrondissementID,
		m.UserID,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return s.fail(ctx, "create", err, slog.Int64("user_id", m.UserID))
	}
	s.log(ctx).Info("membre created", slog.Int64("id", m.ID), slog.Int64("user_id", m.UserID))
	return nil
}

// Update writes every column of m and stamps updated_at.
func (s *PostgresMembreStore) Update(ctx context.Context, m *domain.Membre) error {
	var dateConsecration sql.NullTime
	if m.DateConsecration != nil {
		dateConsecration = sql.NullTime{Time: *m.DateConsecration, Valid: true}
	}
	return s.mutate(ctx, "update", m.ID, `
		UPDATE membres
		SET fullname = $2, genre = $3, date_of_birth = $4, place_of_birth = $5, mother = $6,
			father = $7, marital_status = $8, conjoint = $9, nb_enfant = $10, contacts = $11,
			adresse = $12, arrondissement_id = $13, user_id = $14, date_consecration = $15,
			consecration_structure_id = $16, avatar_id = $17, updated_at = NOW()
		WHERE id = $1`,
		m.ID,
		m.FullName,
		string(m.Genre),
		m.DateOfBirth,
		m.PlaceOfBirth,
		m.Mother,
		m.Father,
		string(m.MaritalStatus),
		m.Conjoint,
		m.NbEnfant,
		m.Contacts,
		m.Adresse,
		m.ArrondissementID,
		m.UserID,
		dateConsecration,
		nullInt64(m.ConsecrationStructureID),
		nullInt64(m.AvatarID),
	)
}

// Delete removes the membre and its assignments.
func (s *PostgresMembreStore) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete", id, `DELETE FROM membres WHERE id = $1`, id)
}

func (s *PostgresMembreStore) GetByID(ctx context.Context, id int64) (*domain.Membre, error) {
	return getOne(ctx, s.storeBase, "get", scanMembre,
		`SELECT `+membreColumns+` FROM membres WHERE id = $1`, id)
}

// GetByUserID returns the membre linked to the user account.
func (s *PostgresMembreStore) GetByUserID(ctx context.Context, userID int64) (*domain.Membre, error) {
	return getOne(ctx, s.storeBase, "get", scanMembre,
		`SELECT `+membreColumns+` FROM membres WHERE user_id = $1`, userID)
}

func (s *PostgresMembreStore) List(ctx context.Context) ([]domain.Membre, error) {
	return getList(ctx, s.storeBase, "list", scanMembre,
		`SELECT `+membreColumns+` FROM membres ORDER BY id`)
}

// SearchByName matches fragment against the full name.
func (s *PostgresMembreStore) SearchByName(ctx context.Context, fragment string) ([]domain.Membre, error) {
	return getList(ctx, s.storeBase, "search", scanMembre,
		`SELECT `+membreColumns+` FROM membres WHERE fullname ILIKE $1 ORDER BY id`,
		containsPattern(fragment))
}
