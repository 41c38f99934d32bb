package middleware

import (
	"net/http"

	"github.com/atelier-dev/portfolio-server-go/internal/httputil"
)

type contextKey string

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}
