package postgres

import (
	"context"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
)

// PostgresUserStore implements store.UserStore.
type PostgresUserStore struct {
	storeBase
}

// NewPostgresUserStore creates a user store on db.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	return &PostgresUserStore{storeBase: newStoreBase(db, logger, "user")}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

const userColumns = `id, user_name, email, password, role_id, active, created_at`

func scanUser(row scanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.UserName, &u.Email, &u.HashedPassword, &u.RoleID, &u.Active, &u.CreatedAt)
	return u, err
}

// Create inserts u with its already hashed password. A taken email or user
// name yields store.ErrDuplicate.
func (s *PostgresUserStore) Create(ctx context.Context, u *domain.User) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (user_name, email, password, role_id, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		u.UserName, u.Email, u.HashedPassword, u.RoleID, u.Active,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return s.fail(ctx, "create", err)
	}
	s.log(ctx).Info("user created", slog.Int64("id", u.ID), slog.Int64("role_id", u.RoleID))
	return nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return getOne(ctx, s.storeBase, "get", scanUser,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail matches the email case-insensitively.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return getOne(ctx, s.storeBase, "get", scanUser,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (s *PostgresUserStore) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	return getOne(ctx, s.storeBase, "get", scanUser,
		`SELECT `+userColumns+` FROM users WHERE user_name = $1`, userName)
}
