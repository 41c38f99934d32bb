package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-dev/portfolio-server-go/internal/model"
)

// In-memory repositories for development (STORE_DRIVER=memory) and tests.
// They follow the Postgres implementations' semantics, including ordering,
// search and not-found reporting.

var (
	_ AdminRepository   = (*MemoryAdminRepository)(nil)
	_ ContactRepository = (*MemoryContactRepository)(nil)
	_ ProjectRepository = (*MemoryProjectRepository)(nil)
)

// ErrDuplicate is returned when creating an admin whose username exists.
var ErrDuplicate = errors.New("duplicate record")

type MemoryAdminRepository struct {
	mu     sync.Mutex
	admins map[string]model.Admin
	now    func() time.Time
}

func NewMemoryAdminRepository() *MemoryAdminRepository {
	return &MemoryAdminRepository{admins: make(map[string]model.Admin), now: time.Now}
}

func (r *MemoryAdminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	admin, ok := r.admins[username]
	if !ok {
		return nil, nil
	}
	return &admin, nil
}

func (r *MemoryAdminRepository) Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.admins[params.Username]; ok {
		return nil, ErrDuplicate
	}
	admin := model.Admin{
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		CreatedAt:    r.now().UTC(),
	}
	r.admins[admin.Username] = admin
	return &admin, nil
}

// Remove deletes an admin. The service layer never does this; it exists so
// operators and tests can revoke a principal.
func (r *MemoryAdminRepository) Remove(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.admins, username)
}

type contactEntry struct {
	seq     int64
	contact model.Contact
}

type MemoryContactRepository struct {
	mu       sync.Mutex
	contacts map[string]contactEntry
	seq      int64
	now      func() time.Time
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{contacts: make(map[string]contactEntry), now: time.Now}
}

func (r *MemoryContactRepository) Create(ctx context.Context, params model.CreateContactParams) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	contact := model.Contact{
		ID:        uuid.NewString(),
		Name:      params.Name,
		Email:     params.Email,
		Subject:   params.Subject,
		Message:   params.Message,
		CreatedAt: r.now().UTC(),
	}
	r.contacts[contact.ID] = contactEntry{seq: r.seq, contact: contact}
	return &contact, nil
}

func (r *MemoryContactRepository) List(ctx context.Context, q model.ContactQuery) ([]model.Contact, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]contactEntry, 0, len(r.contacts))
	for _, e := range r.contacts {
		if contactMatches(e.contact, q.Search) {
			matched = append(matched, e)
		}
	}
	sortNewestFirst(matched, func(e contactEntry) (time.Time, int64) { return e.contact.CreatedAt, e.seq })

	total := len(matched)
	contacts := []model.Contact{}
	start := q.Offset()
	if start < 0 || start >= total || q.Limit <= 0 {
		return contacts, total, nil
	}
	end := start + q.Limit
	if end > total || end < start {
		end = total
	}
	for _, e := range matched[start:end] {
		contacts = append(contacts, e.contact)
	}
	return contacts, total, nil
}

func contactMatches(c model.Contact, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{c.Name, c.Email, c.Subject, c.Message} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (r *MemoryContactRepository) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.contacts[id]
	if !ok {
		return nil, nil
	}
	return &e.contact, nil
}

func (r *MemoryContactRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contacts[id]; !ok {
		return ErrNotFound
	}
	delete(r.contacts, id)
	return nil
}

type projectEntry struct {
	seq    int64
	record model.ProjectRecord
}

type MemoryProjectRepository struct {
	mu       sync.Mutex
	projects map[string]projectEntry
	seq      int64
	now      func() time.Time
}

func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{projects: make(map[string]projectEntry), now: time.Now}
}

func (r *MemoryProjectRepository) Create(ctx context.Context, params model.CreateProjectParams) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	rec := model.ProjectRecord{
		ID:          uuid.NewString(),
		Title:       nullable(params.Title),
		Description: nullable(params.Description),
		Category:    nullable(params.Category),
		ImageURL:    nullable(params.ImageURL),
		Link:        nullable(params.Link),
		CreatedAt:   r.now().UTC(),
	}
	r.projects[rec.ID] = projectEntry{seq: r.seq, record: rec}
	project := rec.Project()
	return &project, nil
}

func (r *MemoryProjectRepository) FindAll(ctx context.Context) ([]model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]projectEntry, 0, len(r.projects))
	for _, e := range r.projects {
		entries = append(entries, e)
	}
	sortNewestFirst(entries, func(e projectEntry) (time.Time, int64) { return e.record.CreatedAt, e.seq })

	projects := make([]model.Project, 0, len(entries))
	for _, e := range entries {
		projects = append(projects, e.record.Project())
	}
	return projects, nil
}

func (r *MemoryProjectRepository) FindByID(ctx context.Context, id string) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	project := e.record.Project()
	return &project, nil
}

func (r *MemoryProjectRepository) Update(ctx context.Context, id string, params model.UpdateProjectParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.projects[id]
	if !ok {
		return ErrNotFound
	}
	e.record.Title = &params.Title
	e.record.Description = &params.Description
	e.record.Link = &params.Link
	r.projects[id] = e
	return nil
}

func (r *MemoryProjectRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

// sortNewestFirst orders by creation time descending, breaking ties by
// insertion order so that later inserts come first.
func sortNewestFirst[T any](items []T, key func(T) (time.Time, int64)) {
	sort.Slice(items, func(i, j int) bool {
		ti, si := key(items[i])
		tj, sj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return si > sj
	})
}
