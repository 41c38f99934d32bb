package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/atelier-dev/portfolio-server-go/internal/errors"
	"github.com/atelier-dev/portfolio-server-go/internal/events"
	"github.com/atelier-dev/portfolio-server-go/internal/model"
	"github.com/atelier-dev/portfolio-server-go/internal/repository"
	"github.com/atelier-dev/portfolio-server-go/internal/storage"
	"github.com/atelier-dev/portfolio-server-go/internal/util"
)

type ProjectUpload struct {
	Title       string
	Description string
	Category    string
	Link        string
	ContentType string
	Image       io.Reader
}

type ProjectEdit struct {
	Title       string
	Description string
	Link        string
}

type ProjectService struct {
	projects  repository.ProjectRepository
	images    storage.Store
	publisher events.Publisher
}

func NewProjectService(projects repository.ProjectRepository, images storage.Store, publisher events.Publisher) *ProjectService {
	return &ProjectService{projects: projects, images: images, publisher: publisher}
}

// Create stores the image and then the project that points at it.
func (s *ProjectService) Create(ctx context.Context, up ProjectUpload) (*model.Project, error) {
	title := strings.TrimSpace(up.Title)
	description := strings.TrimSpace(up.Description)
	category := strings.TrimSpace(up.Category)

	switch {
	case util.IsBlank(title):
		return nil, apperrors.MissingRequired("title")
	case util.IsBlank(description):
		return nil, apperrors.MissingRequired("description")
	case util.IsBlank(category):
		return nil, apperrors.MissingRequired("category")
	case up.Image == nil:
		return nil, apperrors.MissingRequired("image")
	case !storage.IsAllowedImage(up.ContentType):
		return nil, apperrors.UnsupportedMedia("Unsupported file type. Use PNG, JPG, JPEG, or WEBP.")
	}

	imageURL, err := s.images.Save(ctx, up.ContentType, up.Image)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	project, err := s.projects.Create(ctx, model.CreateProjectParams{
		Title:       title,
		Description: description,
		Category:    category,
		ImageURL:    imageURL,
		Link:        linkOrDefault(up.Link),
	})
	if err != nil {
		// the client may be gone, the stored image still has to go
		if delErr := s.images.Delete(context.WithoutCancel(ctx), imageURL); delErr != nil {
			log.Warn().Err(delErr).Str("image", imageURL).Msg("failed to remove image of unsaved project")
		}
		return nil, apperrors.Database(err)
	}

	log.Info().Str("projectId", project.ID).Str("image", imageURL).Msg("project created")
	s.publisher.Publish(ctx, events.Event{Type: events.ProjectCreated, ID: project.ID, At: project.CreatedAt})
	return project, nil
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if project == nil {
		return nil, apperrors.NotFound("Project")
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, edit ProjectEdit) error {
	title := strings.TrimSpace(edit.Title)
	description := strings.TrimSpace(edit.Description)
	if util.IsBlank(title) {
		return apperrors.MissingRequired("title")
	}
	if util.IsBlank(description) {
		return apperrors.MissingRequired("description")
	}

	err := s.projects.Update(ctx, id, model.UpdateProjectParams{
		Title:       title,
		Description: description,
		Link:        linkOrDefault(edit.Link),
	})
	if err := notFoundOr(err, "Project"); err != nil {
		return err
	}

	log.Info().Str("projectId", id).Msg("project updated")
	return nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := notFoundOr(s.projects.Delete(ctx, id), "Project"); err != nil {
		return err
	}

	log.Info().Str("projectId", id).Msg("project deleted")
	s.publisher.Publish(ctx, events.Event{Type: events.ProjectDeleted, ID: id})
	return nil
}

func linkOrDefault(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return model.DefaultProjectLink
	}
	return link
}

func notFoundOr(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(resource)
	default:
		return apperrors.Database(err)
	}
}
