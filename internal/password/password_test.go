package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fastHasher(preferred Scheme) *Hasher {
	return NewHasher(Options{
		Preferred:    preferred,
		BcryptCost:   bcrypt.MinCost,
		PBKDF2Rounds: 1000,
	})
}

func TestNewHasher(t *testing.T) {
	t.Run("uses bcrypt when it is available", func(t *testing.T) {
		h := fastHasher(SchemeBcrypt)
		assert.Equal(t, SchemeBcrypt, h.Scheme())
	})

	t.Run("defaults to bcrypt when no scheme is given", func(t *testing.T) {
		h := fastHasher("")
		assert.Equal(t, SchemeBcrypt, h.Scheme())
	})

	t.Run("falls back to pbkdf2 when bcrypt cannot hash", func(t *testing.T) {
		h := NewHasher(Options{
			Preferred:    SchemeBcrypt,
			BcryptCost:   bcrypt.MaxCost + 9,
			PBKDF2Rounds: 1000,
		})
		assert.Equal(t, SchemePBKDF2, h.Scheme())

		hash, err := h.Hash("s3cret")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$pbkdf2-sha256$1000$"))
		assert.True(t, h.Verify("s3cret", hash))
	})

	t.Run("honours an explicit pbkdf2 preference", func(t *testing.T) {
		h := fastHasher(SchemePBKDF2)
		assert.Equal(t, SchemePBKDF2, h.Scheme())
	})
}

func TestHashAndVerify(t *testing.T) {
	for _, scheme := range []Scheme{SchemeBcrypt, SchemePBKDF2} {
		h := fastHasher(scheme)

		t.Run(string(scheme)+" verifies the original password", func(t *testing.T) {
			for _, pw := range []string{"a", "correct horse battery staple", "pässwörd", "with spaces and $ signs"} {
				hash, err := h.Hash(pw)
				require.NoError(t, err)
				assert.NotEqual(t, pw, hash)
				assert.True(t, h.Verify(pw, hash), pw)
			}
		})

		t.Run(string(scheme)+" rejects a different password", func(t *testing.T) {
			hash, err := h.Hash("password-one")
			require.NoError(t, err)
			assert.False(t, h.Verify("password-two", hash))
			assert.False(t, h.Verify("", hash))
		})

		t.Run(string(scheme)+" salts every hash", func(t *testing.T) {
			hash1, err := h.Hash("same")
			require.NoError(t, err)
			hash2, err := h.Hash("same")
			require.NoError(t, err)
			assert.NotEqual(t, hash1, hash2)
		})
	}
}

func TestVerify(t *testing.T) {
	h := fastHasher(SchemeBcrypt)

	t.Run("accepts hashes from the other scheme", func(t *testing.T) {
		pbkdf2Hash, err := fastHasher(SchemePBKDF2).Hash("shared")
		require.NoError(t, err)
		assert.True(t, h.Verify("shared", pbkdf2Hash))
	})

	t.Run("accepts a passlib pbkdf2_sha256 hash", func(t *testing.T) {
		hash := "$pbkdf2-sha256$1000$MDEyMzQ1Njc4OWFiY2RlZg$cBg8D2DungRB9k76szThf5ehfyBz991ay6PT8Srwk4M"
		assert.True(t, h.Verify("correct horse", hash))
		assert.False(t, h.Verify("correct horse!", hash))
	})

	t.Run("treats malformed hashes as a mismatch", func(t *testing.T) {
		for _, hash := range []string{
			"",
			"plaintext",
			"$2b$04$tooshort",
			"$pbkdf2-sha256$abc$salt$sum",
			"$pbkdf2-sha256$1000$only-two",
			"$pbkdf2-sha256$1000$!!!$!!!",
			"$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		} {
			assert.False(t, h.Verify("anything", hash), hash)
		}
	})
}

func TestPBKDF2Rounds(t *testing.T) {
	const salt, sum = "MDEyMzQ1Njc4OWFiY2RlZg", "cBg8D2DungRB9k76szThf5ehfyBz991ay6PT8Srwk4M"

	t.Run("rejects round counts above the cap without hashing", func(t *testing.T) {
		for _, rounds := range []string{"10000001", "20000000", "9223372036854775807"} {
			ok, err := newPBKDF2Scheme(0).Compare("correct horse", "$pbkdf2-sha256$"+rounds+"$"+salt+"$"+sum)
			assert.False(t, ok, rounds)
			assert.ErrorIs(t, err, ErrMalformedHash, rounds)
		}
	})

	t.Run("hashing never exceeds the cap", func(t *testing.T) {
		assert.Equal(t, pbkdf2MaxRounds, newPBKDF2Scheme(pbkdf2MaxRounds+1).rounds)
		assert.Equal(t, pbkdf2DefaultRounds, newPBKDF2Scheme(0).rounds)
	})

	t.Run("verify treats an over-cap hash as a mismatch", func(t *testing.T) {
		h := fastHasher(SchemePBKDF2)
		assert.False(t, h.Verify("correct horse", "$pbkdf2-sha256$20000000$"+salt+"$"+sum))
	})
}

func TestAB64(t *testing.T) {
	raw := []byte{0xfb, 0xff, 0xbf, 0x00}
	encoded := ab64Encode(raw)
	assert.NotContains(t, encoded, "+")
	assert.NotContains(t, encoded, "=")

	decoded, err := ab64Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}
