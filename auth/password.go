// Package auth contains authentication logic: password hashing, signed session
// tokens, the JWT middleware guarding protected routes, and the register/login
// endpoints.
// This file, `password.go`, is the credential store. Raw passwords only ever
// exist in memory long enough to be hashed or compared.
package auth

import (
	"fmt"

	// `bcrypt` is a salted, deliberately slow hash; the salt and cost live inside the hash string.
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of rawPassword.
func HashPassword(rawPassword string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether rawPassword matches storedHash.
// bcrypt's own comparison is constant-time.
func CheckPassword(rawPassword, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(rawPassword)) == nil
}
