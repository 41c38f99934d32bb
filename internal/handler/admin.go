package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/atelier-dev/portfolio-server-go/internal/errors"
	"github.com/atelier-dev/portfolio-server-go/internal/middleware"
	"github.com/atelier-dev/portfolio-server-go/internal/service"
	"github.com/atelier-dev/portfolio-server-go/internal/web"
)

const (
	invalidLoginMessage = "Invalid username or password"
	uploadMemory        = 8 << 20
	uploadProjectPath   = "/admin/upload-project"
)

// Error indicators carried back to a form page in ?error=.
const (
	formErrMissing = "missing"
	formErrType    = "type"
	formErrSize    = "size"
)

var uploadErrorMessages = map[string]string{
	formErrMissing: "Title, description, category and image are all required.",
	formErrType:    "Unsupported image type. Use PNG, JPG, JPEG or WEBP.",
	formErrSize:    "The image is too large.",
}

var editErrorMessages = map[string]string{
	formErrMissing: "Title and description are required.",
}

// SessionOptions controls the cookie written on login.
type SessionOptions struct {
	TTL    time.Duration
	Secure bool
}

type AdminHandler struct {
	auth     *service.AuthService
	contacts *service.ContactService
	projects *service.ProjectService
	renderer *web.Renderer
	session  SessionOptions
	gate     func(http.Handler) http.Handler
}

func NewAdminHandler(
	auth *service.AuthService,
	contacts *service.ContactService,
	projects *service.ProjectService,
	renderer *web.Renderer,
	session SessionOptions,
	gate func(http.Handler) http.Handler,
) *AdminHandler {
	return &AdminHandler{
		auth:     auth,
		contacts: contacts,
		projects: projects,
		renderer: renderer,
		session:  session,
		gate:     gate,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(h.gate)

		r.Get("/messages", h.Messages)
		r.Post("/delete/{id}", h.DeleteMessage)
		r.Get("/api/messages", h.MessagesJSON)

		r.Get("/projects", h.Projects)
		r.Get("/upload", h.UploadPage)
		r.Get("/upload-project", h.UploadPage)
		r.Post("/upload-project", h.UploadProject)
		r.Get("/edit/{id}", h.EditPage)
		r.Post("/update/{id}", h.UpdateProject)
		r.Post("/projects/{id}/delete", h.DeleteProject)
	})

	return r
}

// UnauthorizedPage is the gate's reject handler for HTML routes.
func UnauthorizedPage(renderer *web.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderer.RenderError(w, http.StatusUnauthorized, "Please log in to continue.")
	})
}

// TooLargePage answers requests over the body limit. Form posts go back to
// their form with an error indicator; anything else gets a 413 page.
func TooLargePage(renderer *web.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == uploadProjectPath:
			redirect(w, r, withFormError(uploadProjectPath, formErrSize))
		case r.Method == http.MethodPost && r.URL.Path == contactFormPath:
			redirect(w, r, contactErrorURL)
		default:
			renderer.RenderError(w, http.StatusRequestEntityTooLarge, "The request is too large.")
		}
	})
}

func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, web.PageLogin, web.LoginView{
		CSRFToken: middleware.GetCSRFToken(r.Context()),
	})
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(h.renderer, w, r, apperrors.ValidationError("Invalid form submission"))
		return
	}

	token, err := h.auth.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			renderError(h.renderer, w, r, err)
			return
		}
		h.renderer.Render(w, http.StatusUnauthorized, web.PageLogin, web.LoginView{
			CSRFToken: middleware.GetCSRFToken(r.Context()),
			Error:     invalidLoginMessage,
		})
		return
	}

	middleware.SetSessionCookie(w, token, h.session.TTL, h.session.Secure)
	redirect(w, r, "/admin/messages")
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, h.session.Secure)
	redirect(w, r, "/admin")
}

func (h *AdminHandler) Messages(w http.ResponseWriter, r *http.Request) {
	query := ParseContactQuery(r)
	page, err := h.contacts.List(r.Context(), query)
	if err != nil {
		renderError(h.renderer, w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, web.PageMessages, web.MessagesView{
		Admin:     middleware.GetAdmin(r.Context()),
		CSRFToken: middleware.GetCSRFToken(r.Context()),
		Search:    query.Search,
		Page:      page,
	})
}

func (h *AdminHandler) MessagesJSON(w http.ResponseWriter, r *http.Request) {
	page, err := h.contacts.List(r.Context(), ParseContactQuery(r))
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *AdminHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.contacts.Delete(r.Context(), id); err != nil {
		renderError(h.renderer, w, r, err)
		return
	}

	redirect(w, r, "/admin/messages")
}

func (h *AdminHandler) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		renderError(h.renderer, w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, web.PageProjects, web.ProjectsView{
		Admin:     middleware.GetAdmin(r.Context()),
		CSRFToken: middleware.GetCSRFToken(r.Context()),
		Projects:  projects,
	})
}

func (h *AdminHandler) UploadPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, web.PageUpload, web.UploadView{
		Admin:     middleware.GetAdmin(r.Context()),
		CSRFToken: middleware.GetCSRFToken(r.Context()),
		Error:     uploadErrorMessages[r.URL.Query().Get("error")],
	})
}

func (h *AdminHandler) UploadProject(w http.ResponseWriter, r *http.Request) {
	const back = uploadProjectPath

	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			redirect(w, r, withFormError(back, formErrSize))
			return
		}
		redirect(w, r, withFormError(back, formErrMissing))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		redirect(w, r, withFormError(back, formErrMissing))
		return
	}
	defer file.Close()

	project, err := h.projects.Create(r.Context(), service.ProjectUpload{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Link:        r.FormValue("link"),
		ContentType: header.Header.Get("Content-Type"),
		Image:       file,
	})
	if err != nil {
		if code, ok := formErrorCode(err); ok {
			redirect(w, r, withFormError(back, code))
			return
		}
		renderError(h.renderer, w, r, err)
		return
	}

	log.Debug().Str("projectId", project.ID).Int64("size", header.Size).Msg("upload accepted")
	redirect(w, r, "/admin/projects")
}

func (h *AdminHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(h.renderer, w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, web.PageEditProject, web.EditView{
		Admin:     middleware.GetAdmin(r.Context()),
		CSRFToken: middleware.GetCSRFToken(r.Context()),
		Project:   *project,
		Error:     editErrorMessages[r.URL.Query().Get("error")],
	})
}

func (h *AdminHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		renderError(h.renderer, w, r, apperrors.ValidationError("Invalid form submission"))
		return
	}

	err := h.projects.Update(r.Context(), id, service.ProjectEdit{
		Title:       r.PostForm.Get("title"),
		Description: r.PostForm.Get("description"),
		Link:        r.PostForm.Get("link"),
	})
	if err != nil {
		if code, ok := formErrorCode(err); ok {
			redirect(w, r, withFormError("/admin/edit/"+url.PathEscape(id), code))
			return
		}
		renderError(h.renderer, w, r, err)
		return
	}

	redirect(w, r, "/admin/projects")
}

func (h *AdminHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.projects.Delete(r.Context(), id); err != nil {
		renderError(h.renderer, w, r, err)
		return
	}

	redirect(w, r, "/admin/projects")
}

// formErrorCode maps validation failures to a form error indicator. Other
// errors are not form errors.
func formErrorCode(err error) (string, bool) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return "", false
	}
	switch appErr.Code {
	case apperrors.ErrCodeUnsupportedMedia:
		return formErrType, true
	case apperrors.ErrCodeMissingRequired, apperrors.ErrCodeInvalidInput, apperrors.ErrCodeValidation:
		return formErrMissing, true
	default:
		return "", false
	}
}

func withFormError(path, code string) string {
	return path + "?error=" + url.QueryEscape(code)
}
