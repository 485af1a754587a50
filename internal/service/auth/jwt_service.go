package auth

import (
	"context"
	"time"

	"github.com/epccam/directory-api/internal/domain"
)

// JWTService issues and validates access tokens.
type JWTService interface {
	// GenerateToken signs a token for user carrying the permissions of role.
	// It returns the token and its expiry.
	GenerateToken(ctx context.Context, user domain.User, role domain.Role) (string, time.Time, error)

	// ValidateToken verifies tokenString and returns its claims. It returns
	// ErrExpiredToken, ErrInvalidToken or ErrInvalidClaims on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the identity carried by a valid token.
type Claims struct {
	UserID      int64
	UserName    string
	Email       string
	RoleName    string
	Permissions []string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	ID          string
}

// HasPermission reports whether the claims grant permission.
func (c *Claims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// View returns the user's short view as carried by the token.
func (c *Claims) View() domain.UserView {
	perms := make([]string, len(c.Permissions))
	copy(perms, c.Permissions)
	return domain.UserView{
		UserID:      c.UserID,
		Username:    c.UserName,
		Email:       c.Email,
		RoleName:    c.RoleName,
		Permissions: perms,
	}
}
