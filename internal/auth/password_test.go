package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("passw0rd99", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "passw0rd99", hash)

	assert.True(t, VerifyPassword("passw0rd99", hash))
	assert.False(t, VerifyPassword("wrong", hash))
	assert.False(t, VerifyPassword("passw0rd99", "not-a-hash"))
}

func TestCheckPasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"passw0rd99", true},
		{"a1b2c3d4", true},
		{"short1", false},   // too short
		{"12345678", false}, // no letter
		{"abcdefgh", false}, // no digit
		{"", false},
	}

	for _, tc := range cases {
		err := CheckPasswordStrength(tc.password)
		if tc.ok {
			assert.NoError(t, err, "password %q", tc.password)
		} else {
			assert.ErrorIs(t, err, ErrWeakPassword, "password %q", tc.password)
		}
	}
}
