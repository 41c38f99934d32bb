package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// StaticHandler serves regular files below dir. Directories and missing
// files are 404s; there is no index fallback and no listing.
type StaticHandler struct {
	dir string
}

func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Get the wildcard path from Chi router context
	rel := chi.URLParam(r, "*")
	if rel == "" {
		http.NotFound(w, r)
		return
	}

	filePath := filepath.Join(h.dir, filepath.FromSlash(path.Clean("/"+rel)))

	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, filePath)
}
