package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", digest)

	assert.True(t, h.Verify("correct-horse", digest))
	assert.False(t, h.Verify("wrong-horse", digest))
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("correct-horse")
	require.NoError(t, err)
	b, err := h.Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_TooShort(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
