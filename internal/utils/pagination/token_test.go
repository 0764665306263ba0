package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	registeredAt := time.Date(2024, 1, 31, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(registeredAt, "5f0c6a52-3f1e-4f43-9d6e-2c1b8f0e7a11")
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "=", "Token must be safe in a query string")

	decodedAt, decodedID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, registeredAt.Equal(decodedAt))
	assert.Equal(t, "5f0c6a52-3f1e-4f43-9d6e-2c1b8f0e7a11", decodedID)
}

func TestEncodeTokenNormalisesToUTC(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)
	at := time.Date(2024, 3, 1, 1, 0, 0, 0, lagos)

	decodedAt, _, err := DecodeToken(EncodeToken(at, "acc"))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, decodedAt.Location())
	assert.True(t, at.Equal(decodedAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	missingSeparator := base64.RawURLEncoding.EncodeToString([]byte("2024-01-01T00:00:00Z"))
	_, _, err = DecodeToken(missingSeparator)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	emptyID := base64.RawURLEncoding.EncodeToString([]byte("2024-01-01T00:00:00Z|"))
	_, _, err = DecodeToken(emptyID)
	assert.Error(t, err)

	badTime := base64.RawURLEncoding.EncodeToString([]byte("yesterday|acc"))
	_, _, err = DecodeToken(badTime)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time parse")
}
