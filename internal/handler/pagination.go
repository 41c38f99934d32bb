package handler

import (
	"net/http"
	"strconv"

	"github.com/atelier-dev/portfolio-server-go/internal/model"
	"github.com/atelier-dev/portfolio-server-go/internal/service"
)

// ParseContactQuery reads search, page and limit from the query string.
// Missing or malformed numbers fall back to the first page of
// service.DefaultPageLimit items; the service clamps the rest.
func ParseContactQuery(r *http.Request) model.ContactQuery {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = service.DefaultPageLimit
	}

	return model.ContactQuery{
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	}
}
