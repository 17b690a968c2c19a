package password

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor used for all password hashes.
const Cost = 10

// Hash generates a salted bcrypt hash from a plaintext password.
func Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Check reports whether the plaintext password reproduces the given hash.
func Check(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
