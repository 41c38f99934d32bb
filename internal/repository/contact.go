package repository

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/atelier-dev/portfolio-server-go/internal/model"
)

type ContactRepository interface {
	Create(ctx context.Context, params model.CreateContactParams) (*model.Contact, error)
	// List returns one page of contacts, newest first, and the number of
	// contacts matching the query overall.
	List(ctx context.Context, q model.ContactQuery) ([]model.Contact, int, error)
	FindByID(ctx context.Context, id string) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

type contactRepo struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, params model.CreateContactParams) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.GetContext(ctx, &contact, `
		INSERT INTO contacts (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.Name, params.Email, params.Subject, params.Message)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepo) List(ctx context.Context, q model.ContactQuery) ([]model.Contact, int, error) {
	contacts := []model.Contact{}
	var total int

	query := `SELECT * FROM contacts WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM contacts WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if q.Search != "" {
		p := `$` + strconv.Itoa(argIndex)
		filter := ` AND (name ILIKE ` + p + ` OR email ILIKE ` + p +
			` OR subject ILIKE ` + p + ` OR message ILIKE ` + p + `)`
		query += filter
		countQuery += filter
		args = append(args, likePattern(q.Search))
		argIndex++
	}

	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(argIndex) + ` OFFSET $` + strconv.Itoa(argIndex+1)
	args = append(args, q.Limit, q.Offset())

	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

func (r *contactRepo) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	if !validID(id) {
		return nil, nil
	}
	var contact model.Contact
	err := r.db.GetContext(ctx, &contact, `SELECT * FROM contacts WHERE id = $1`, id)
	return HandleNotFound(&contact, err)
}

func (r *contactRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id))
}
