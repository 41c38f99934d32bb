package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/atelier-dev/portfolio-server-go/internal/util"
)

// ErrNotFound is returned by mutations that matched no row.
var ErrNotFound = errors.New("record not found")

// HandleNotFound processes a database query result, converting sql.ErrNoRows
// to a nil result without error. This is a common pattern for Find* operations
// where a missing row is not an error condition.
//
// Usage:
//
//	var item model.Item
//	err := r.db.GetContext(ctx, &item, query, args...)
//	return HandleNotFound(&item, err)
func HandleNotFound[T any](result *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// requireAffected turns a zero-row mutation into ErrNotFound.
func requireAffected(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// validID reports whether id can name a stored record. Ids are uuids in
// every store.
func validID(id string) bool {
	return util.IsValidUUID(id)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps term for a substring ILIKE match with its wildcards
// taken literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
