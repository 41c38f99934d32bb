package model

import (
	"time"
)

type Admin struct {
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type CreateAdminParams struct {
	Username     string
	PasswordHash string
}
