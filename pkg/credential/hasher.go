package credential

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinSecretLength is the shortest secret HashPassword accepts
const MinSecretLength = 6

// ErrSecretTooShort is returned by HashPassword for secrets under MinSecretLength
var ErrSecretTooShort = errors.New("credential: secret too short")

// HashPassword hashes a plaintext secret using bcrypt.
func HashPassword(secret string) (string, error) {
	if len(secret) < MinSecretLength {
		return "", ErrSecretTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
