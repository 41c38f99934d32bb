package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// pbkdf2 hashes use the passlib modular crypt layout:
//
//	$pbkdf2-sha256$<rounds>$<salt>$<checksum>
//
// where salt and checksum are unpadded base64 with '.' in place of '+'.
const (
	pbkdf2Prefix        = "$pbkdf2-sha256$"
	pbkdf2DefaultRounds = 29000
	// pbkdf2MaxRounds bounds the work a stored hash can demand on login.
	pbkdf2MaxRounds = 10_000_000
	pbkdf2SaltBytes     = 16
	pbkdf2KeyBytes      = 32
)

type pbkdf2Scheme struct {
	rounds int
}

func newPBKDF2Scheme(rounds int) *pbkdf2Scheme {
	if rounds <= 0 {
		rounds = pbkdf2DefaultRounds
	}
	rounds = min(rounds, pbkdf2MaxRounds)
	return &pbkdf2Scheme{rounds: rounds}
}

func (s *pbkdf2Scheme) Name() Scheme { return SchemePBKDF2 }

func (s *pbkdf2Scheme) Hash(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, s.rounds, pbkdf2KeyBytes, sha256.New)
	return fmt.Sprintf("%s%d$%s$%s", pbkdf2Prefix, s.rounds, ab64Encode(salt), ab64Encode(key)), nil
}

func (s *pbkdf2Scheme) Matches(encoded string) bool {
	return strings.HasPrefix(encoded, pbkdf2Prefix)
}

func (s *pbkdf2Scheme) Compare(password, encoded string) (bool, error) {
	parts := strings.Split(strings.TrimPrefix(encoded, pbkdf2Prefix), "$")
	if len(parts) != 3 {
		return false, ErrMalformedHash
	}

	rounds, err := strconv.Atoi(parts[0])
	if err != nil || rounds <= 0 || rounds > pbkdf2MaxRounds {
		return false, fmt.Errorf("%w: bad rounds %q", ErrMalformedHash, parts[0])
	}
	salt, err := ab64Decode(parts[1])
	if err != nil {
		return false, fmt.Errorf("%w: bad salt: %v", ErrMalformedHash, err)
	}
	want, err := ab64Decode(parts[2])
	if err != nil || len(want) == 0 {
		return false, fmt.Errorf("%w: bad checksum", ErrMalformedHash)
	}

	got := pbkdf2.Key([]byte(password), salt, rounds, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func ab64Encode(b []byte) string {
	return strings.ReplaceAll(base64.RawStdEncoding.EncodeToString(b), "+", ".")
}

func ab64Decode(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.ReplaceAll(s, ".", "+"))
}
