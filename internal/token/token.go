// Package token generates random opaque tokens used for email verification
// and password reset links. The tokens carry no internal structure; their only
// security property is unguessability.
package token

import (
	"crypto/rand"
	"encoding/hex"
)

// numBytes is the number of random bytes per token; hex encoding doubles it.
const numBytes = 32

// Generate returns a 64-character hex-encoded random token.
func Generate() (string, error) {
	b := make([]byte, numBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
