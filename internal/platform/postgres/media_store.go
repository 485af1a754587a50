package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
)

// PostgresMediaStore implements store.MediaStore.
type PostgresMediaStore struct {
	storeBase
}

// NewPostgresMediaStore creates a media store on db.
func NewPostgresMediaStore(db store.DBTX, logger *slog.Logger) *PostgresMediaStore {
	return &PostgresMediaStore{storeBase: newStoreBase(db, logger, "media")}
}

var _ store.MediaStore = (*PostgresMediaStore)(nil)

const mediaColumns = `id, file_name, path_name, type, structure_id, created_at`

func scanMedia(row scanner) (domain.Media, error) {
	var (
		m         domain.Media
		mediaType string
		structure sql.NullInt64
	)
	if err := row.Scan(&m.ID, &m.FileName, &m.PathName, &mediaType, &structure, &m.CreatedAt); err != nil {
		return m, err
	}
	m.Type = domain.MediaType(mediaType)
	m.StructureID = int64Ptr(structure)
	return m, nil
}

// Create inserts m and sets its ID and creation time.
func (s *PostgresMediaStore) Create(ctx context.Context, m *domain.Media) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO medias (file_name, path_name, type, structure_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		m.FileName, m.PathName, string(m.Type), nullInt64(m.StructureID),
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return s.fail(ctx, "create", err)
	}
	s.log(ctx).Debug("media created", slog.Int64("id", m.ID))
	return nil
}

// Delete removes the row. A membre avatar pointing at it is cleared by the
// schema.
func (s *PostgresMediaStore) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete", id, `DELETE FROM medias WHERE id = $1`, id)
}

func (s *PostgresMediaStore) GetByID(ctx context.Context, id int64) (*domain.Media, error) {
	return getOne(ctx, s.storeBase, "get", scanMedia,
		`SELECT `+mediaColumns+` FROM medias WHERE id = $1`, id)
}

// ListByStructure returns the medias attached to a structure.
func (s *PostgresMediaStore) ListByStructure(ctx context.Context, structureID int64) ([]domain.Media, error) {
	return getList(ctx, s.storeBase, "list", scanMedia,
		`SELECT `+mediaColumns+` FROM medias WHERE structure_id = $1 ORDER BY id`, structureID)
}
