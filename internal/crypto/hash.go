package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades login latency for brute-force resistance. Cost 12 keeps
// a single verification in the tens of milliseconds on current hardware.
const bcryptCost = 12

const MinPasswordLength = 6

var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

// HashPassword derives a salted bcrypt digest from a plaintext password.
// The plaintext is never stored anywhere.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
// bcrypt performs the comparison in constant time with respect to the guess.
func CheckPassword(password string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
