package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/atelier-dev/portfolio-server-go/internal/model"
)

// AdminRepository is the credential store.
type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error)
}

type adminRepo struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, `SELECT * FROM admins WHERE username = $1`, username)
	return HandleNotFound(&admin, err)
}

func (r *adminRepo) Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, `
		INSERT INTO admins (username, password_hash)
		VALUES ($1, $2)
		RETURNING *
	`, params.Username, params.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
