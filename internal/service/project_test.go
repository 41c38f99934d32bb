package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/atelier-dev/portfolio-server-go/internal/errors"
	"github.com/atelier-dev/portfolio-server-go/internal/events"
	"github.com/atelier-dev/portfolio-server-go/internal/model"
	"github.com/atelier-dev/portfolio-server-go/internal/repository"
)

func validUpload() ProjectUpload {
	return ProjectUpload{
		Title:       "Bridge",
		Description: "A suspension bridge",
		Category:    "Civil",
		ContentType: "image/png",
		Image:       strings.NewReader("png-bytes"),
	}
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("saves the image and defaults the link", func(t *testing.T) {
		store := new(mockStore)
		store.On("Save", "image/png", "png-bytes").Return("/static/uploads/x.png", nil)
		pub := &recordingPublisher{}
		svc := NewProjectService(repository.NewMemoryProjectRepository(), store, pub)

		project, err := svc.Create(ctx, validUpload())
		require.NoError(t, err)
		assert.Equal(t, "/static/uploads/x.png", project.ImageURL)
		assert.Equal(t, model.DefaultProjectLink, project.Link)
		assert.Equal(t, "Civil", project.Category)
		assert.Equal(t, []events.Type{events.ProjectCreated}, pub.Types())
		store.AssertExpectations(t)
	})

	t.Run("rejects types outside the allow-list before storing", func(t *testing.T) {
		store := new(mockStore)
		svc := NewProjectService(repository.NewMemoryProjectRepository(), store, events.NopPublisher{})

		up := validUpload()
		up.ContentType = "image/gif"
		_, err := svc.Create(ctx, up)
		assert.Equal(t, apperrors.ErrCodeUnsupportedMedia, apperrors.GetCode(err))
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("requires title, description, category and image", func(t *testing.T) {
		svc := NewProjectService(repository.NewMemoryProjectRepository(), new(mockStore), events.NopPublisher{})
		for name, mutate := range map[string]func(*ProjectUpload){
			"title":       func(u *ProjectUpload) { u.Title = " " },
			"description": func(u *ProjectUpload) { u.Description = "" },
			"category":    func(u *ProjectUpload) { u.Category = "" },
			"image":       func(u *ProjectUpload) { u.Image = nil },
		} {
			up := validUpload()
			mutate(&up)
			_, err := svc.Create(ctx, up)
			assert.Equal(t, apperrors.ErrCodeMissingRequired, apperrors.GetCode(err), name)
		}
	})

	t.Run("storage failures are server errors", func(t *testing.T) {
		store := new(mockStore)
		store.On("Save", "image/png", "png-bytes").Return("", errors.New("disk full"))
		projects := repository.NewMemoryProjectRepository()
		svc := NewProjectService(projects, store, events.NopPublisher{})

		_, err := svc.Create(ctx, validUpload())
		assert.Equal(t, apperrors.ErrCodeStorage, apperrors.GetCode(err))

		all, err := projects.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("a failed insert removes the stored image", func(t *testing.T) {
		store := new(mockStore)
		store.On("Save", "image/png", "png-bytes").Return("/static/uploads/x.png", nil)
		store.On("Delete", "/static/uploads/x.png").Return(nil)
		pub := &recordingPublisher{}
		svc := NewProjectService(failingProjects{repository.NewMemoryProjectRepository()}, store, pub)

		_, err := svc.Create(ctx, validUpload())
		assert.Equal(t, apperrors.ErrCodeDatabase, apperrors.GetCode(err))
		assert.Empty(t, pub.Types())
		store.AssertExpectations(t)
	})

	t.Run("a failed cleanup keeps the database error", func(t *testing.T) {
		store := new(mockStore)
		store.On("Save", "image/png", "png-bytes").Return("/static/uploads/x.png", nil)
		store.On("Delete", "/static/uploads/x.png").Return(errors.New("permission denied"))
		svc := NewProjectService(failingProjects{repository.NewMemoryProjectRepository()}, store, events.NopPublisher{})

		_, err := svc.Create(ctx, validUpload())
		assert.Equal(t, apperrors.ErrCodeDatabase, apperrors.GetCode(err))
		store.AssertExpectations(t)
	})
}

// failingProjects stores nothing and fails every insert.
type failingProjects struct {
	*repository.MemoryProjectRepository
}

func (failingProjects) Create(ctx context.Context, params model.CreateProjectParams) (*model.Project, error) {
	return nil, errors.New("connection reset")
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	store.On("Save", mock.Anything, mock.Anything).Return("/static/uploads/y.png", nil)
	pub := &recordingPublisher{}
	svc := NewProjectService(repository.NewMemoryProjectRepository(), store, pub)

	up := validUpload()
	up.Link = "https://example.com"
	project, err := svc.Create(ctx, up)
	require.NoError(t, err)

	t.Run("get returns the project", func(t *testing.T) {
		got, err := svc.Get(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.Link)
	})

	t.Run("get of an unknown id is not found", func(t *testing.T) {
		_, err := svc.Get(ctx, uuid.NewString())
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})

	t.Run("update with an empty link resets it to the default", func(t *testing.T) {
		require.NoError(t, svc.Update(ctx, project.ID, ProjectEdit{Title: "Tunnel", Description: "Under water"}))

		got, err := svc.Get(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tunnel", got.Title)
		assert.Equal(t, model.DefaultProjectLink, got.Link)
		assert.Equal(t, "Civil", got.Category)
	})

	t.Run("update of an unknown id is not found", func(t *testing.T) {
		err := svc.Update(ctx, uuid.NewString(), ProjectEdit{Title: "x", Description: "y"})
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})

	t.Run("update requires a title", func(t *testing.T) {
		err := svc.Update(ctx, project.ID, ProjectEdit{Description: "y"})
		assert.Equal(t, apperrors.ErrCodeMissingRequired, apperrors.GetCode(err))
	})

	t.Run("delete removes once and then reports not found", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, project.ID))
		err := svc.Delete(ctx, project.ID)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
		assert.Contains(t, pub.Types(), events.ProjectDeleted)
	})
}
