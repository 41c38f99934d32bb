package model

import (
	"math"
	"time"
)

// ContactTimeLayout is how contact timestamps are shown in the inbox.
const ContactTimeLayout = "2006-01-02 15:04:05"

type Contact struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (c Contact) CreatedAtDisplay() string {
	return c.CreatedAt.Format(ContactTimeLayout)
}

type CreateContactParams struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactQuery selects one page of the inbox. Search is matched
// case-insensitively against name, email, subject and message.
type ContactQuery struct {
	Search string
	Page   int
	Limit  int
}

// Offset is the number of rows to skip. It saturates at math.MaxInt
// instead of overflowing for huge page numbers.
func (q ContactQuery) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}
