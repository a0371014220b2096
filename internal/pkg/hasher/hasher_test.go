package hasher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	ctx := context.Background()
	h := NewBcrypt(bcrypt.MinCost)

	hashed, err := h.GetHashedPassword(ctx, "Password123")
	require.NoError(t, err)
	assert.Len(t, hashed, 60)

	assert.NoError(t, h.CompareHashAndPassword(ctx, hashed, "Password123"))
	assert.Error(t, h.CompareHashAndPassword(ctx, hashed, "Password124"))
}
