package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	for _, plain := range []string{"securepass", "p@ss w0rd", "日本語パスワード", "x"} {
		hash, err := HashPassword(plain, 4)
		require.NoError(t, err)
		require.NotEqual(t, plain, hash)

		assert.True(t, VerifyPassword(hash, plain))
		assert.False(t, VerifyPassword(hash, plain+"x"))
		assert.False(t, VerifyPassword(hash, ""))
	}
}

func TestHashPasswordSaltedPerCall(t *testing.T) {
	h1, err := HashPassword("securepass", 4)
	require.NoError(t, err)
	h2, err := HashPassword("securepass", 4)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "securepass"))
	assert.False(t, VerifyPassword("", "securepass"))
}
