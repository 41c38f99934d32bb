package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type bcryptScheme struct {
	cost int
}

func newBcryptScheme(cost int) *bcryptScheme {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &bcryptScheme{cost: cost}
}

func (s *bcryptScheme) Name() Scheme { return SchemeBcrypt }

func (s *bcryptScheme) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *bcryptScheme) Matches(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func (s *bcryptScheme) Compare(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
