package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/atelier-dev/portfolio-server-go/internal/errors"
	"github.com/atelier-dev/portfolio-server-go/internal/events"
	"github.com/atelier-dev/portfolio-server-go/internal/model"
	"github.com/atelier-dev/portfolio-server-go/internal/repository"
)

func validForm() ContactForm {
	return ContactForm{Name: "Bob", Email: "bob@example.com", Subject: "Hi", Message: "Hello there"}
}

func TestContactService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the trimmed message and announces it", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc := NewContactService(repository.NewMemoryContactRepository(), pub)

		form := validForm()
		form.Name = "  Bob  "
		contact, err := svc.Submit(ctx, form)
		require.NoError(t, err)
		assert.Equal(t, "Bob", contact.Name)
		assert.Equal(t, []events.Type{events.ContactSubmitted}, pub.Types())
	})

	t.Run("rejects missing and malformed fields", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc := NewContactService(repository.NewMemoryContactRepository(), pub)

		cases := map[string]func(f *ContactForm){
			"blank name":    func(f *ContactForm) { f.Name = "   " },
			"missing email": func(f *ContactForm) { f.Email = "" },
			"bad email":     func(f *ContactForm) { f.Email = "not-an-email" },
			"blank subject": func(f *ContactForm) { f.Subject = "" },
			"blank message": func(f *ContactForm) { f.Message = "\n" },
		}
		for name, mutate := range cases {
			form := validForm()
			mutate(&form)
			_, err := svc.Submit(ctx, form)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok, name)
			assert.True(t, appErr.IsClientError(), name)
		}
		assert.Empty(t, pub.Types())
	})
}

func TestContactService_List(t *testing.T) {
	ctx := context.Background()
	svc := NewContactService(repository.NewMemoryContactRepository(), events.NopPublisher{})
	for i := 0; i < 25; i++ {
		form := validForm()
		form.Name = fmt.Sprintf("Sender %d", i)
		form.Email = fmt.Sprintf("sender%d@example.com", i)
		_, err := svc.Submit(ctx, form)
		require.NoError(t, err)
	}

	t.Run("computes pagination metadata", func(t *testing.T) {
		page, err := svc.List(ctx, model.ContactQuery{Page: 3, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 25, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.Len(t, page.Items, 5)
		assert.False(t, page.HasNext())
	})

	t.Run("clamps page and limit", func(t *testing.T) {
		page, err := svc.List(ctx, model.ContactQuery{Page: -2, Limit: 0})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, DefaultPageLimit, page.Limit)

		page, err = svc.List(ctx, model.ContactQuery{Page: 1, Limit: 5000})
		require.NoError(t, err)
		assert.Equal(t, MaxPageLimit, page.Limit)
		assert.Len(t, page.Items, 25)
	})

	t.Run("huge page numbers give an empty page", func(t *testing.T) {
		page, err := svc.List(ctx, model.ContactQuery{Page: 1e18, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 25, page.Total)
		assert.LessOrEqual(t, page.Page, math.MaxInt/page.Limit)
	})

	t.Run("search narrows the total", func(t *testing.T) {
		page, err := svc.List(ctx, model.ContactQuery{Search: "SENDER1@", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, 1, page.TotalPages)
	})
}

func TestContactService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := NewContactService(repository.NewMemoryContactRepository(), events.NopPublisher{})
	contact, err := svc.Submit(ctx, validForm())
	require.NoError(t, err)

	t.Run("unknown id is not found", func(t *testing.T) {
		err := svc.Delete(ctx, uuid.NewString())
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		err := svc.Delete(ctx, "65f1c2a4e4b0a1b2c3d4e5f6")
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})

	t.Run("existing id is removed", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, contact.ID))

		page, err := svc.List(ctx, model.ContactQuery{})
		require.NoError(t, err)
		assert.Equal(t, 0, page.Total)
	})
}
