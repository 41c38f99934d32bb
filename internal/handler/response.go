package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/atelier-dev/portfolio-server-go/internal/errors"
	"github.com/atelier-dev/portfolio-server-go/internal/httputil"
	"github.com/atelier-dev/portfolio-server-go/internal/web"
)

const genericErrorMessage = "Something went wrong. Please try again later."

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

// writeJSONError logs server-side failures before writing the JSON error.
func writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	logIfServerError(r, err)
	httputil.WriteError(w, err)
}

// renderError shows err on the HTML error page. Server-side failures are
// logged in full and shown with a generic message.
func renderError(renderer *web.Renderer, w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Wrap(apperrors.ErrCodeInternal, genericErrorMessage, err)
	}

	message := appErr.Message
	if !appErr.IsClientError() {
		logIfServerError(r, appErr)
		message = genericErrorMessage
	}

	renderer.RenderError(w, httputil.StatusFromCode(appErr.Code), message)
}

func logIfServerError(r *http.Request, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.IsClientError() {
		return
	}
	log.Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
