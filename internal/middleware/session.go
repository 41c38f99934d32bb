package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/atelier-dev/portfolio-server-go/internal/errors"
	"github.com/atelier-dev/portfolio-server-go/internal/httputil"
	"github.com/atelier-dev/portfolio-server-go/internal/model"
)

// AccessTokenCookie carries the signed admin session token.
const AccessTokenCookie = "access_token"

const AdminContextKey contextKey = "admin"

// Reasons a request is turned away by the SessionGate. Clients only ever
// see a generic 401; these are for logs and tests.
var (
	ErrAuthRequired      = errors.New("authentication required")
	ErrInvalidSession    = errors.New("invalid or expired session")
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrAuthFailed        = errors.New("authentication failed")
)

// GetAdmin returns the username the SessionGate authenticated, or "".
func GetAdmin(ctx context.Context) string {
	if username, ok := ctx.Value(AdminContextKey).(string); ok {
		return username
	}
	return ""
}

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type PrincipalFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
}

// SessionGate guards admin routes: the access_token cookie must hold a
// valid token whose subject is still a stored admin.
type SessionGate struct {
	tokens TokenVerifier
	admins PrincipalFinder
	reject http.Handler
}

// NewSessionGate builds the gate. reject renders the 401 response; nil means
// a JSON error body.
func NewSessionGate(tokens TokenVerifier, admins PrincipalFinder, reject http.Handler) *SessionGate {
	if reject == nil {
		reject = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httputil.WriteError(w, apperrors.Unauthorized("Authentication required. Please log in."))
		})
	}
	return &SessionGate{tokens: tokens, admins: admins, reject: reject}
}

// Authenticate resolves the request's admin. Every failure is one of the
// gate's sentinel errors; panics in the collaborators become ErrAuthFailed.
func (g *SessionGate) Authenticate(r *http.Request) (username string, err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Msg("session gate: recovered panic")
			username, err = "", ErrAuthFailed
		}
	}()

	cookie, cerr := r.Cookie(AccessTokenCookie)
	if cerr != nil || cookie.Value == "" {
		return "", ErrAuthRequired
	}

	subject, verr := g.tokens.Verify(cookie.Value)
	if verr != nil || subject == "" {
		return "", ErrInvalidSession
	}

	admin, ferr := g.admins.FindByUsername(r.Context(), subject)
	if ferr != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, ferr)
	}
	if admin == nil {
		return "", ErrPrincipalNotFound
	}

	return admin.Username, nil
}

func (g *SessionGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, err := g.Authenticate(r)
		if err != nil {
			event := log.Warn()
			if errors.Is(err, ErrAuthFailed) {
				event = log.Error()
			}
			event.Err(err).
				Str("path", r.URL.Path).
				Str("remoteAddr", r.RemoteAddr).
				Msg("admin request rejected")
			g.reject.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), AdminContextKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
