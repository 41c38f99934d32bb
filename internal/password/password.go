// Package password hashes and verifies admin passwords.
//
// A Hasher resolves its hashing scheme once, at construction: the preferred
// scheme is probed and, if it cannot produce a hash, the PBKDF2 fallback is
// used for every Hash call made through that Hasher. Verify always dispatches
// on the scheme encoded in the stored hash, so hashes written under either
// scheme keep verifying.
package password

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Scheme string

const (
	SchemeBcrypt Scheme = "bcrypt"
	SchemePBKDF2 Scheme = "pbkdf2_sha256"
)

const probeInput = "probe"

var (
	ErrUnknownScheme = errors.New("unrecognized password hash scheme")
	ErrMalformedHash = errors.New("malformed password hash")
)

type scheme interface {
	Name() Scheme
	Hash(password string) (string, error)
	// Matches reports whether encoded was produced by this scheme.
	Matches(encoded string) bool
	Compare(password, encoded string) (bool, error)
}

type Options struct {
	Preferred    Scheme
	BcryptCost   int
	PBKDF2Rounds int
}

type Hasher struct {
	active  scheme
	schemes []scheme
}

// NewHasher probes the preferred scheme and falls back to PBKDF2 when the
// probe fails.
func NewHasher(opts Options) *Hasher {
	bc := newBcryptScheme(opts.BcryptCost)
	pb := newPBKDF2Scheme(opts.PBKDF2Rounds)

	h := &Hasher{schemes: []scheme{bc, pb}}

	var preferred scheme = bc
	if opts.Preferred == SchemePBKDF2 {
		preferred = pb
	} else if opts.Preferred != "" && opts.Preferred != SchemeBcrypt {
		log.Warn().Str("scheme", string(opts.Preferred)).Msg("unknown password scheme requested, probing bcrypt")
	}

	h.active = resolve(preferred, pb)
	return h
}

func resolve(preferred, fallback scheme) scheme {
	if _, err := preferred.Hash(probeInput); err != nil {
		log.Warn().Err(err).Str("scheme", string(preferred.Name())).Msg("password scheme not available")
		log.Info().Str("scheme", string(fallback.Name())).Msg("falling back for password hashing")
		return fallback
	}
	return preferred
}

// Scheme returns the scheme used for new hashes.
func (h *Hasher) Scheme() Scheme {
	return h.active.Name()
}

func (h *Hasher) Hash(password string) (string, error) {
	encoded, err := h.active.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password with %s: %w", h.active.Name(), err)
	}
	return encoded, nil
}

// Verify reports whether password matches encoded. Malformed or unrecognized
// hashes never match; the cause is logged, not returned.
func (h *Hasher) Verify(password, encoded string) bool {
	for _, s := range h.schemes {
		if !s.Matches(encoded) {
			continue
		}
		ok, err := s.Compare(password, encoded)
		if err != nil {
			log.Error().Err(err).Str("scheme", string(s.Name())).Msg("password verification failed")
			return false
		}
		return ok
	}

	log.Error().Err(ErrUnknownScheme).Msg("password verification failed")
	return false
}
