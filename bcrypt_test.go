package membership_test

import (
	"testing"

	"github.com/damoti/go-membership"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := membership.HashPassword("figs87sd&s8")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "figs87sd&s8")

	assert.NoError(t, membership.ComparePasswordAndHash("figs87sd&s8", hash))

	err = membership.ComparePasswordAndHash("wrong", hash)
	assert.ErrorIs(t, err, membership.ErrInvalidCredentials)
}

func TestComparePasswordAndHash_NotAHash(t *testing.T) {
	err := membership.ComparePasswordAndHash("figs87sd&s8", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.NotErrorIs(t, err, membership.ErrInvalidCredentials)
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := membership.HashPassword("figs87sd&s8")
	require.NoError(t, err)
	second, err := membership.HashPassword("figs87sd&s8")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
