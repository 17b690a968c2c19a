package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheck(t *testing.T) {
	hash, err := Hash("secret1")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, Check("secret1", hash))
	assert.False(t, Check("secret2", hash))
}

func TestHash_Salted(t *testing.T) {
	h1, err := Hash("secret1")
	assert.NoError(t, err)
	h2, err := Hash("secret1")
	assert.NoError(t, err)

	// Same plaintext must not produce the same hash.
	assert.NotEqual(t, h1, h2)
	assert.True(t, Check("secret1", h1))
	assert.True(t, Check("secret1", h2))
}

func TestHash_TooLong(t *testing.T) {
	// bcrypt rejects passwords longer than 72 bytes
	_, err := Hash(strings.Repeat("a", 100))
	assert.Error(t, err)
}

func TestCheck_InvalidHash(t *testing.T) {
	assert.False(t, Check("secret1", "not-a-bcrypt-hash"))
}
