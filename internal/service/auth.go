package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	apperrors "github.com/atelier-dev/portfolio-server-go/internal/errors"
	"github.com/atelier-dev/portfolio-server-go/internal/model"
	"github.com/atelier-dev/portfolio-server-go/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// PasswordHasher hashes and checks admin passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// TokenIssuer mints session tokens for authenticated admins.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type AuthService struct {
	admins    repository.AdminRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	dummyHash string
}

func NewAuthService(admins repository.AdminRepository, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	s := &AuthService{admins: admins, hasher: hasher, tokens: tokens}
	// Unknown usernames are checked against this hash so that they cost as
	// much as a wrong password.
	if hash, err := hasher.Hash("not-a-real-password"); err == nil {
		s.dummyHash = hash
	}
	return s
}

// Login checks the credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return "", apperrors.Database(err)
	}
	if admin == nil {
		s.hasher.Verify(password, s.dummyHash)
		log.Warn().Str("username", username).Msg("login failed: unknown admin")
		return "", ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, admin.PasswordHash) {
		log.Warn().Str("username", username).Msg("login failed: wrong password")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin.Username)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to issue session", err)
	}

	log.Info().Str("username", admin.Username).Msg("admin logged in")
	return token, nil
}

// EnsureAdmin creates the seed admin when it does not exist yet. Missing
// credentials only produce a notice.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		log.Warn().Msg("ADMIN_USERNAME or ADMIN_PASSWORD not set; no default admin seeded")
		return nil
	}

	existing, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return apperrors.Database(err)
	}
	if existing != nil {
		log.Info().Str("username", username).Msg("admin already exists")
		return nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to hash admin password", err)
	}

	if _, err := s.admins.Create(ctx, model.CreateAdminParams{Username: username, PasswordHash: hash}); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("username", username).Msg("default admin created")
	return nil
}
