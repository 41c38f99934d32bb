package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/atelier-dev/portfolio-server-go/internal/events"
	"github.com/atelier-dev/portfolio-server-go/internal/password"
	"github.com/atelier-dev/portfolio-server-go/internal/token"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, contentType string, r io.Reader) (string, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(contentType, string(data))
	return args.String(0), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, location string) error {
	return m.Called(location).Error(0)
}

func testHasher() *password.Hasher {
	return password.NewHasher(password.Options{Preferred: password.SchemeBcrypt, BcryptCost: bcrypt.MinCost})
}

func testTokens(t *testing.T) *token.Service {
	t.Helper()
	svc, err := token.NewService(token.Options{
		Secret:     strings.Repeat("k", 32),
		Algorithm:  "HS256",
		DefaultTTL: time.Hour,
	})
	require.NoError(t, err)
	return svc
}
