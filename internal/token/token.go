// Package token issues and verifies the signed session tokens carried in the
// admin cookie. Tokens are stateless JWTs: validity depends only on the
// signature and the expiry claim at verification time.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// ErrInvalidToken is returned by Verify for every rejected token.
var ErrInvalidToken = errors.New("invalid or expired token")

var errMissingSubject = errors.New("token has no subject")

type Options struct {
	Secret     string
	Algorithm  string
	DefaultTTL time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

type Service struct {
	secret     []byte
	method     *jwt.SigningMethodHMAC
	defaultTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

func NewService(opts Options) (*Service, error) {
	if opts.Secret == "" {
		return nil, errors.New("token secret is empty")
	}
	method, ok := jwt.GetSigningMethod(opts.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", opts.Algorithm)
	}
	if opts.DefaultTTL <= 0 {
		return nil, fmt.Errorf("default token ttl must be positive, got %s", opts.DefaultTTL)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		secret:     []byte(opts.Secret),
		method:     method,
		defaultTTL: opts.DefaultTTL,
		now:        now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(now),
		),
	}, nil
}

// DefaultTTL is the lifetime used by Issue.
func (s *Service) DefaultTTL() time.Duration {
	return s.defaultTTL
}

func (s *Service) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.defaultTTL)
}

// IssueWithTTL signs a token for subject that expires ttl from now. A
// non-positive ttl yields a token that is already expired.
func (s *Service) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errMissingSubject
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the token subject, or ErrInvalidToken. The reason for a
// rejection is logged only.
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		log.Debug().Err(err).Str("reason", rejectionReason(err)).Msg("session token rejected")
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		log.Debug().Err(errMissingSubject).Str("reason", "missing_subject").Msg("session token rejected")
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "missing_claim"
	default:
		return "invalid"
	}
}
