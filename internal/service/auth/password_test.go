package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	hashed, err := h.Hash("Secret1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1!", hashed)

	assert.NoError(t, h.Compare(hashed, "Secret1!"))
	assert.ErrorIs(t, h.Compare(hashed, "Secret2!"), ErrPasswordMismatch)
	assert.Error(t, h.Compare("not-a-hash", "Secret1!"))
}

func TestNewBcryptHasher_FallsBackToDefaultCost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(1).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
