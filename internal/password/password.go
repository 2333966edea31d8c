package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinLength matches the store-level constraint on local accounts.
const MinLength = 6

// ErrTooShort is returned by Hash for passwords under [MinLength] bytes.
var ErrTooShort = errors.New("password must be at least 6 characters long")

// Hash hashes a plaintext password using bcrypt at the default cost.
func Hash(plaintext string) (string, error) {
	if len(plaintext) < MinLength {
		return "", ErrTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. An empty hash
// (federated account without a local password) never matches.
func Verify(hash, plaintext string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
