package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(4)

	hash, err := hasher.Hash("supersecret")
	require.NoError(t, err)
	require.NotEqual(t, "supersecret", hash)

	require.True(t, hasher.Verify("supersecret", hash))
	require.False(t, hasher.Verify("wrongpassword", hash))
}

func TestPasswordHasher_SaltIsRandomized(t *testing.T) {
	hasher := NewPasswordHasher(4)

	first, err := hasher.Hash("supersecret")
	require.NoError(t, err)
	second, err := hasher.Hash("supersecret")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, hasher.Verify("supersecret", first))
	require.True(t, hasher.Verify("supersecret", second))
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	hasher := NewPasswordHasher(4)

	require.False(t, hasher.Verify("supersecret", ""))
	require.False(t, hasher.Verify("supersecret", "not-a-bcrypt-hash"))
}

func TestNewPasswordHasher_CostOutOfRange(t *testing.T) {
	// 0 and very large costs fall back to the bcrypt default
	hasher := NewPasswordHasher(0)
	hash, err := hasher.Hash("supersecret")
	require.NoError(t, err)
	require.True(t, hasher.Verify("supersecret", hash))
}
