package authentication

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestTMDBKeyRoundTrip(t *testing.T) {
	keyring.MockInit()

	_, err := GetTMDBKey()
	assert.ErrorIs(t, err, ErrNoTMDBKey)

	require.NoError(t, StoreTMDBKey("abc123"))
	key, err := GetTMDBKey()
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)

	require.NoError(t, DeleteTMDBKey())
	require.NoError(t, DeleteTMDBKey())
	_, err = GetTMDBKey()
	assert.ErrorIs(t, err, ErrNoTMDBKey)

	assert.Error(t, StoreTMDBKey(""))
}
