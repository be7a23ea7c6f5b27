package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-passphrase")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-passphrase", hash)

	assert.True(t, CheckPassword("s3cret-passphrase", hash))
	assert.False(t, CheckPassword("wrong", hash))
	assert.False(t, CheckPassword("s3cret-passphrase", "not-a-hash"))
}

func TestHashPassword_Error(t *testing.T) {
	orig := bcryptGenerateFromPassword
	defer func() { bcryptGenerateFromPassword = orig }()
	bcryptGenerateFromPassword = func([]byte, int) ([]byte, error) {
		return nil, errors.New("cost failure")
	}

	_, err := HashPassword("anything")
	require.Error(t, err)
}

func TestGenerateRandomToken(t *testing.T) {
	token, err := GenerateRandomToken(16)
	require.NoError(t, err)
	require.Len(t, token, 32)

	other, err := GenerateRandomToken(16)
	require.NoError(t, err)
	require.NotEqual(t, token, other)
}

func TestGenerateRandomToken_ReadError(t *testing.T) {
	orig := randomRead
	defer func() { randomRead = orig }()
	randomRead = func([]byte) (int, error) {
		return 0, errors.New("entropy exhausted")
	}

	_, err := GenerateRandomToken(16)
	require.Error(t, err)
}
