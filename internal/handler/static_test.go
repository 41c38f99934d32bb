package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticHandler(t *testing.T) {
	root := t.TempDir()
	publicDir := filepath.Join(root, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(publicDir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "css", "site.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("top secret"), 0o644))

	r := chi.NewRouter()
	r.Handle("/static/*", NewStaticHandler(publicDir))

	serve := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("serves a file", func(t *testing.T) {
		rec := serve("/static/css/site.css")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "body{}", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	})

	t.Run("missing file is a 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, serve("/static/css/missing.css").Code)
	})

	t.Run("directories are a 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, serve("/static/css").Code)
		assert.Equal(t, http.StatusNotFound, serve("/static/").Code)
	})

	t.Run("cannot escape the root", func(t *testing.T) {
		rec := serve("/static/../secret.txt")
		assert.NotEqual(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "top secret")
	})
}
