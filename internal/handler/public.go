package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/atelier-dev/portfolio-server-go/internal/config"
	apperrors "github.com/atelier-dev/portfolio-server-go/internal/errors"
	"github.com/atelier-dev/portfolio-server-go/internal/service"
	"github.com/atelier-dev/portfolio-server-go/internal/web"
)

const (
	contactFormPath   = "/contact/form"
	contactSuccessURL = "/?success=true"
	contactErrorURL   = "/?error=true#contact"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PublicHandler struct {
	contacts *service.ContactService
	projects *service.ProjectService
	renderer *web.Renderer
	store    Pinger
}

// NewPublicHandler builds the public site handler. store may be nil when
// there is nothing to ping.
func NewPublicHandler(
	contacts *service.ContactService,
	projects *service.ProjectService,
	renderer *web.Renderer,
	store Pinger,
) *PublicHandler {
	return &PublicHandler{
		contacts: contacts,
		projects: projects,
		renderer: renderer,
		store:    store,
	}
}

func (h *PublicHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Index)
	r.Post(contactFormPath, h.SubmitContact)
	r.Get("/api/projects", h.ListProjects)
	r.Get("/health", h.Health)

	return r
}

func (h *PublicHandler) Index(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		renderError(h.renderer, w, r, err)
		return
	}

	q := r.URL.Query()
	h.renderer.Render(w, http.StatusOK, web.PageIndex, web.IndexView{
		Projects: projects,
		Success:  q.Get("success") == "true",
		Error:    q.Get("error") == "true",
	})
}

func (h *PublicHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Warn().Err(err).Msg("contact form: unreadable body")
		redirect(w, r, contactErrorURL)
		return
	}

	_, err := h.contacts.Submit(r.Context(), service.ContactForm{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Subject: r.PostForm.Get("subject"),
		Message: r.PostForm.Get("message"),
	})
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.IsClientError() {
			log.Warn().Str("reason", appErr.Message).Msg("contact form rejected")
		} else {
			log.Error().Err(err).Msg("contact form submission failed")
		}
		redirect(w, r, contactErrorURL)
		return
	}

	redirect(w, r, contactSuccessURL)
}

func (h *PublicHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"projects": projects,
		"total":    len(projects),
	})
}

func (h *PublicHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), config.DBPingTimeout)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("health check: store unreachable")
			status, code = "unavailable", http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UnixMilli(),
	})
}
