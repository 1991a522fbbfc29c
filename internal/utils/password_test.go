package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "password", hash)

	assert.True(t, VerifyPassword(hash, "password"))
	assert.False(t, VerifyPassword(hash, "Password"))
	assert.False(t, VerifyPassword("not-a-hash", "password"))
}
