package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret-password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$12$"))

	assert.NoError(t, CheckPassword(hash, "secret-password"))
	assert.Error(t, CheckPassword(hash, "wrong-password"))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	assert.Error(t, CheckPassword("not-a-bcrypt-hash", "secret-password"))
}
