package auth

import (
	"fmt"

	"github.com/epccam/directory-api/internal/config"
)

// DefaultJWTConfig returns an auth configuration for tests.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 30,
		BCryptCost:           4,
		DefaultRole:          "ROLE_USER",
	}
}

// MustCreateTestJWTService creates a JWT service from DefaultJWTConfig and
// panics if it cannot.
func MustCreateTestJWTService() JWTService {
	svc, err := NewJWTService(DefaultJWTConfig())
	if err != nil {
		// ALLOW-PANIC
		panic(fmt.Sprintf("failed to create test JWT service: %v", err))
	}
	return svc
}
