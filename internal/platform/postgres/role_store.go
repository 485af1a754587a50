package postgres

import (
	"context"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
	"github.com/jackc/pgx/v5/pgtype"
)

// PostgresRoleStore implements store.RoleStore. Permissions are a text[]
// column.
type PostgresRoleStore struct {
	storeBase
}

// NewPostgresRoleStore creates a role store on db.
func NewPostgresRoleStore(db store.DBTX, logger *slog.Logger) *PostgresRoleStore {
	return &PostgresRoleStore{storeBase: newStoreBase(db, logger, "role")}
}

var _ store.RoleStore = (*PostgresRoleStore)(nil)

const roleColumns = `id, name, description, permissions`

func scanRole(row scanner) (domain.Role, error) {
	var r domain.Role
	// pgtype.Map is not safe for concurrent use, so each scan gets its own.
	m := pgtype.NewMap()
	if err := row.Scan(&r.ID, &r.Name, &r.Description, m.SQLScanner(&r.Permissions)); err != nil {
		return r, err
	}
	if r.Permissions == nil {
		r.Permissions = []string{}
	}
	return r, nil
}

func (s *PostgresRoleStore) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	return getOne(ctx, s.storeBase, "get", scanRole,
		`SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
}

func (s *PostgresRoleStore) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return getOne(ctx, s.storeBase, "get", scanRole,
		`SELECT `+roleColumns+` FROM roles WHERE name = $1`, name)
}
