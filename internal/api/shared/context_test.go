package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/epccam/directory-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	traced := SetTraceID(ctx)
	id := GetTraceID(traced)
	assert.Len(t, id, 32)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)
	assert.Empty(t, GetTraceID(ctx), "parent context is untouched")

	wrongType := context.WithValue(ctx, TraceIDKey, 123)
	assert.Empty(t, GetTraceID(wrongType))
}

func TestGenerateTraceID_Unique(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id := generateTraceID()
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestFallbackTraceID(t *testing.T) {
	t.Parallel()
	id := fallbackTraceID()
	assert.Len(t, id, 32)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)
}

func TestClaimsContext(t *testing.T) {
	t.Parallel()
	_, ok := ClaimsFrom(context.Background())
	assert.False(t, ok)

	_, ok = ClaimsFrom(WithClaims(context.Background(), nil))
	assert.False(t, ok)

	claims := &auth.Claims{UserID: 7, Permissions: []string{"get:regions"}}
	got, ok := ClaimsFrom(WithClaims(context.Background(), claims))
	require.True(t, ok)
	assert.Same(t, claims, got)
}
