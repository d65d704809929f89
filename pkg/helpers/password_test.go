package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)

	assert.True(t, CompareHashAndPassword(hash, "secret123"))
	assert.False(t, CompareHashAndPassword(hash, "wrong"))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("secret123")
	require.NoError(t, err)
	h2, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
