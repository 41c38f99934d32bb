package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/atelier-dev/portfolio-server-go/internal/model"
)

// ProjectRepository stores projects. Every read applies the field defaults
// from model.ProjectRecord.
type ProjectRepository interface {
	Create(ctx context.Context, params model.CreateProjectParams) (*model.Project, error)
	FindAll(ctx context.Context) ([]model.Project, error)
	FindByID(ctx context.Context, id string) (*model.Project, error)
	Update(ctx context.Context, id string, params model.UpdateProjectParams) error
	Delete(ctx context.Context, id string) error
}

type projectRepo struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, params model.CreateProjectParams) (*model.Project, error) {
	var rec model.ProjectRecord
	err := r.db.GetContext(ctx, &rec, `
		INSERT INTO projects (title, description, category, image_url, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, nullable(params.Title), nullable(params.Description), nullable(params.Category),
		nullable(params.ImageURL), nullable(params.Link))
	if err != nil {
		return nil, err
	}
	project := rec.Project()
	return &project, nil
}

func (r *projectRepo) FindAll(ctx context.Context) ([]model.Project, error) {
	var recs []model.ProjectRecord
	err := r.db.SelectContext(ctx, &recs, `SELECT * FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}

	projects := make([]model.Project, 0, len(recs))
	for _, rec := range recs {
		projects = append(projects, rec.Project())
	}
	return projects, nil
}

func (r *projectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	if !validID(id) {
		return nil, nil
	}
	var rec model.ProjectRecord
	found, err := HandleNotFound(&rec, r.db.GetContext(ctx, &rec, `SELECT * FROM projects WHERE id = $1`, id))
	if err != nil || found == nil {
		return nil, err
	}
	project := found.Project()
	return &project, nil
}

func (r *projectRepo) Update(ctx context.Context, id string, params model.UpdateProjectParams) error {
	if !validID(id) {
		return ErrNotFound
	}
	return requireAffected(r.db.ExecContext(ctx, `
		UPDATE projects SET
			title = $2,
			description = $3,
			link = $4
		WHERE id = $1
	`, id, params.Title, params.Description, params.Link))
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id))
}
