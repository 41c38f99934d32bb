package middleware

import (
	"context"
	"net/http"

	"github.com/atelier-dev/portfolio-server-go/internal/config"
)

const bodyTooLargeKey contextKey = "bodyTooLarge"

type BodyLimitMiddleware struct {
	maxSize int64
	reject  http.Handler
}

// NewBodyLimitMiddleware caps request bodies at maxSize. reject answers
// oversized requests, both here and when a later middleware trips over the
// limit while reading the body; nil means a JSON 413.
func NewBodyLimitMiddleware(maxSize int64, reject http.Handler) *BodyLimitMiddleware {
	if maxSize <= 0 {
		maxSize = config.DefaultMaxBodySize
	}
	if reject == nil {
		reject = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": "Request body too large",
			})
		})
	}
	return &BodyLimitMiddleware{maxSize: maxSize, reject: reject}
}

func (m *BodyLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.ContentLength > m.maxSize {
			m.reject.ServeHTTP(w, r)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, m.maxSize)
		ctx := context.WithValue(r.Context(), bodyTooLargeKey, m.reject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rejectTooLarge answers a request whose body went over the limit, using
// the reject handler of the enclosing BodyLimitMiddleware.
func rejectTooLarge(w http.ResponseWriter, r *http.Request) {
	if reject, ok := r.Context().Value(bodyTooLargeKey).(http.Handler); ok {
		reject.ServeHTTP(w, r)
		return
	}
	writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
		"error": "Request body too large",
	})
}
