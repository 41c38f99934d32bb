package model

import (
	"time"
)

// Values shown for project fields that were never set.
const (
	DefaultProjectTitle       = "Untitled Project"
	DefaultProjectDescription = ""
	DefaultProjectCategory    = "General"
	DefaultProjectImageURL    = "/static/default.jpg"
	DefaultProjectLink        = "#"
)

type Project struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	ImageURL    string    `db:"image_url" json:"imageUrl"`
	Link        string    `db:"link" json:"link"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type CreateProjectParams struct {
	Title       string
	Description string
	Category    string
	ImageURL    string
	Link        string
}

// UpdateProjectParams carries the fields an admin may edit after upload.
type UpdateProjectParams struct {
	Title       string
	Description string
	Link        string
}

// ProjectRecord is a stored project whose optional fields may be unset.
type ProjectRecord struct {
	ID          string    `db:"id"`
	Title       *string   `db:"title"`
	Description *string   `db:"description"`
	Category    *string   `db:"category"`
	ImageURL    *string   `db:"image_url"`
	Link        *string   `db:"link"`
	CreatedAt   time.Time `db:"created_at"`
}

// Project resolves unset fields to their defaults.
func (r ProjectRecord) Project() Project {
	return Project{
		ID:          r.ID,
		Title:       valueOr(r.Title, DefaultProjectTitle),
		Description: valueOr(r.Description, DefaultProjectDescription),
		Category:    valueOr(r.Category, DefaultProjectCategory),
		ImageURL:    valueOr(r.ImageURL, DefaultProjectImageURL),
		Link:        valueOr(r.Link, DefaultProjectLink),
		CreatedAt:   r.CreatedAt,
	}
}

func valueOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
