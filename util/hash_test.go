package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashPasswordMock(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return ""
	}
	return string(hash)
}

func TestVerifyPasswordTable(t *testing.T) {
	tests := []struct {
		name     string
		password string
		hash     string
		expected bool
	}{
		{"hash matches correct password", "Passw0rd!", hashPasswordMock("Passw0rd!"), true},
		{"hash does not match incorrect password", "Passw0rd!", hashPasswordMock("Passw0rd?"), false},
		{"empty hash never matches", "Passw0rd!", "", false},
		{"plain text stored value never matches", "Passw0rd!", "Passw0rd!", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VerifyPassword(tt.password, tt.hash))
		})
	}
}

func TestHashPassword(t *testing.T) {
	first, err := HashPassword("Passw0rd!")
	require.NoError(t, err)
	second, err := HashPassword("Passw0rd!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "salted hashes differ")
	assert.True(t, VerifyPassword("Passw0rd!", first))
	assert.True(t, VerifyPassword("Passw0rd!", second))
}
