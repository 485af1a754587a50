package auth

import (
	"context"
	"testing"
	"time"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testUser = domain.User{ID: 42, UserName: "jean", Email: "jean@example.com", RoleID: 2, Active: true}
	testRole = domain.Role{ID: 2, Name: "ROLE_USER", Permissions: []string{"get:regions", "get:user"}}
)

func newTestService(t *testing.T, now func() time.Time) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err)
	impl := svc.(*hmacJWTService)
	if now != nil {
		impl.timeFunc = now
	}
	return impl
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	cfg := DefaultJWTConfig()
	cfg.JWTSecret = "short"
	_, err := NewJWTService(cfg)
	assert.Error(t, err)

	cfg = DefaultJWTConfig()
	cfg.TokenLifetimeMinutes = 0
	_, err = NewJWTService(cfg)
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, func() time.Time { return now })

	token, exp, err := svc.GenerateToken(context.Background(), testUser, testRole)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, now.Add(30*time.Minute), exp)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jean", claims.UserName)
	assert.Equal(t, "jean@example.com", claims.Email)
	assert.Equal(t, "ROLE_USER", claims.RoleName)
	assert.Equal(t, []string{"get:regions", "get:user"}, claims.Permissions)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.HasPermission("get:regions"))
	assert.False(t, claims.HasPermission("post:regions"))

	view := claims.View()
	assert.Equal(t, domain.UserView{
		UserID:      42,
		Username:    "jean",
		Email:       "jean@example.com",
		RoleName:    "ROLE_USER",
		Permissions: []string{"get:regions", "get:user"},
	}, view)
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, func() time.Time { return issued })
	token, _, err := svc.GenerateToken(context.Background(), testUser, testRole)
	require.NoError(t, err)

	svc.timeFunc = func() time.Time { return issued.Add(31 * time.Minute) }
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Invalid(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	token, _, err := svc.GenerateToken(context.Background(), testUser, testRole)
	require.NoError(t, err)

	other := DefaultJWTConfig()
	other.JWTSecret = "another-secret-that-is-also-32-chars-long"
	otherSvc, err := NewJWTService(other)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "malformed", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "tampered", token: token + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		_, err := otherSvc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"userid":      1,
			"permissions": []string{"get:regions"},
			"exp":         time.Now().Add(time.Hour).Unix(),
		})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateToken(context.Background(), s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidateToken_MissingPermissions(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userid": 1,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString(svc.signingKey)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestValidateToken_EmptyPermissionsIsValid(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	token, _, err := svc.GenerateToken(context.Background(), testUser, domain.Role{Name: "ROLE_NONE"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Empty(t, claims.Permissions)
	assert.False(t, claims.HasPermission("get:regions"))
}

func TestValidateToken_ExpirationRequired(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userid":      1,
		"permissions": []string{"get:regions"},
	})
	token, err := raw.SignedString(svc.signingKey)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
