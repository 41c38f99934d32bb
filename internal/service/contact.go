package service

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/atelier-dev/portfolio-server-go/internal/errors"
	"github.com/atelier-dev/portfolio-server-go/internal/events"
	"github.com/atelier-dev/portfolio-server-go/internal/model"
	"github.com/atelier-dev/portfolio-server-go/internal/repository"
	"github.com/atelier-dev/portfolio-server-go/internal/util"
)

// Inbox pagination bounds.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type ContactForm struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type ContactService struct {
	contacts  repository.ContactRepository
	publisher events.Publisher
}

func NewContactService(contacts repository.ContactRepository, publisher events.Publisher) *ContactService {
	return &ContactService{contacts: contacts, publisher: publisher}
}

func (s *ContactService) Submit(ctx context.Context, form ContactForm) (*model.Contact, error) {
	params := model.CreateContactParams{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.TrimSpace(form.Email),
		Subject: strings.TrimSpace(form.Subject),
		Message: strings.TrimSpace(form.Message),
	}
	if err := validateContact(params); err != nil {
		return nil, err
	}

	contact, err := s.contacts.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().Str("contactId", contact.ID).Msg("contact message received")
	s.publisher.Publish(ctx, events.Event{Type: events.ContactSubmitted, ID: contact.ID, At: contact.CreatedAt})
	return contact, nil
}

func validateContact(p model.CreateContactParams) error {
	switch {
	case util.IsBlank(p.Name):
		return apperrors.MissingRequired("name")
	case util.IsBlank(p.Email):
		return apperrors.MissingRequired("email")
	case !util.IsValidEmail(p.Email):
		return apperrors.InvalidInput("email", "not a valid address")
	case util.IsBlank(p.Subject):
		return apperrors.MissingRequired("subject")
	case util.IsBlank(p.Message):
		return apperrors.MissingRequired("message")
	}
	return nil
}

// List returns one inbox page. Out-of-range page and limit values are
// clamped rather than rejected.
func (s *ContactService) List(ctx context.Context, q model.ContactQuery) (model.Page[model.Contact], error) {
	q = NormalizeQuery(q)

	contacts, total, err := s.contacts.List(ctx, q)
	if err != nil {
		return model.Page[model.Contact]{}, apperrors.Database(err)
	}
	return model.NewPage(contacts, total, q.Page, q.Limit), nil
}

func NormalizeQuery(q model.ContactQuery) model.ContactQuery {
	q.Search = strings.TrimSpace(q.Search)
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Limit < 1:
		q.Limit = DefaultPageLimit
	case q.Limit > MaxPageLimit:
		q.Limit = MaxPageLimit
	}
	// keep (Page-1)*Limit representable
	if maxPage := math.MaxInt / q.Limit; q.Page > maxPage {
		q.Page = maxPage
	}
	return q
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := notFoundOr(s.contacts.Delete(ctx, id), "Message"); err != nil {
		return err
	}
	log.Info().Str("contactId", id).Msg("contact message deleted")
	return nil
}
