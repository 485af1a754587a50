package mocks

import (
	"errors"
	"strings"

	"github.com/epccam/directory-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher without bcrypt's cost.
// Hash prefixes the password with "hashed:"; Compare accepts exactly that.
type MockPasswordHasher struct {
	// HashErr is returned by Hash when set.
	HashErr error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

const hashPrefix = "hashed:"

// Hash implements auth.PasswordHasher.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	if password == "" {
		return "", errors.New("empty password")
	}
	return hashPrefix + password, nil
}

// Compare implements auth.PasswordHasher.
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if strings.TrimPrefix(hashedPassword, hashPrefix) != password || !strings.HasPrefix(hashedPassword, hashPrefix) {
		return auth.ErrPasswordMismatch
	}
	return nil
}
