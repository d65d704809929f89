package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTGenerateAndParse(t *testing.T) {
	m := NewJWTManager("test-secret", 24*time.Hour)

	token, exp, err := m.Generate(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestJWTParseExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Hour)

	token, _, err := m.Generate(7)
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestJWTParseWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, _, err := m.Generate(7)
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestJWTParseGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	_, err := m.Parse("not-a-token")
	assert.Error(t, err)
}
