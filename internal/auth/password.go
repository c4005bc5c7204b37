// Package auth — password hashing utilities.
//
// bcrypt is deliberately slow, generates its own salt, and embeds the salt
// in the output hash, so a single TEXT column stores everything needed for
// verification. Never store passwords in plain text or with fast hashes.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor: ~250ms per hash on current server
// hardware. Negligible for login, brutal for brute force.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification. It is a struct
// rather than free functions so tests can inject a lower cost and run fast.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// newPasswordServiceWithCost creates a PasswordService with a custom cost.
// Unexported helper used by the tests in this package.
func newPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt hash of password.
//
// bcrypt silently truncates input beyond 72 bytes, so we reject longer
// passwords instead of hashing a prefix.
func (s *PasswordService) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("auth: password must not be empty")
	}
	if len(password) > 72 {
		return "", errors.New("auth: password must be 72 bytes or fewer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify compares a stored bcrypt hash with a candidate password. Returns
// nil on match, an error otherwise. The comparison is constant-time inside
// bcrypt itself.
func (s *PasswordService) Verify(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("auth: password mismatch: %w", err)
	}
	return nil
}
