// Package web renders the site's HTML pages from embedded templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/atelier-dev/portfolio-server-go/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Renderer.Render.
const (
	PageIndex        = "index.html"
	PageLogin        = "admin_login.html"
	PageMessages     = "admin_messages.html"
	PageProjects     = "admin_projects.html"
	PageUpload       = "admin_upload.html"
	PageEditProject  = "admin_edit.html"
	PageError        = "error.html"
	layoutTemplate   = "layout.html"
	layoutEntryPoint = "layout"
)

var pages = []string{PageIndex, PageLogin, PageMessages, PageProjects, PageUpload, PageEditProject, PageError}

type IndexView struct {
	Projects []model.Project
	Success  bool
	Error    bool
}

type LoginView struct {
	CSRFToken string
	Error     string
}

type MessagesView struct {
	Admin     string
	CSRFToken string
	Search    string
	Page      model.Page[model.Contact]
}

type ProjectsView struct {
	Admin     string
	CSRFToken string
	Projects  []model.Project
}

type UploadView struct {
	Admin     string
	CSRFToken string
	Error     string
}

type EditView struct {
	Admin     string
	CSRFToken string
	Project   model.Project
	Error     string
}

type ErrorView struct {
	Status  int
	Title   string
	Message string
}

type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New(page).ParseFS(templateFS, "templates/"+layoutTemplate, "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}
	return r, nil
}

// Render writes page with the given status. The page is rendered into a
// buffer first so a template error never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := r.templates[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutEntryPoint, data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("failed to render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn().Err(err).Str("page", page).Msg("failed to write page")
	}
}

// RenderError renders the generic error page.
func (r *Renderer) RenderError(w http.ResponseWriter, status int, message string) {
	r.Render(w, status, PageError, ErrorView{
		Status:  status,
		Title:   http.StatusText(status),
		Message: message,
	})
}
