// Package hasher wraps bcrypt for one-way password storage. The cost factor
// is fixed at build time; it is not tunable per call.
package hasher

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor applied to every hash.
const Cost = 12

// ErrEmptyPassword is returned when Hash is called with an empty plaintext.
var ErrEmptyPassword = errors.New("password must not be empty")

// Bcrypt hashes and verifies passwords with a fixed cost factor.
type Bcrypt struct{}

func New() Bcrypt {
	return Bcrypt{}
}

// Hash returns a salted bcrypt hash of plaintext. The salt is embedded in the
// returned value, so two hashes of the same password differ.
func (Bcrypt) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A wrong password returns
// false, never an error; only a malformed hash is an error.
func (Bcrypt) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("bcrypt verify: %w", err)
	}
}
