package admin

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// VerifyToken checks a plaintext admin token against the configured bcrypt
// hash. An empty hash disables the admin surface entirely.
func VerifyToken(hashedToken, plainToken string) bool {
	if hashedToken == "" || plainToken == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken)) == nil
}

// HashToken produces the bcrypt hash to place in ADMIN_TOKEN_HASH.
func HashToken(plainToken string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hashed), nil
}
