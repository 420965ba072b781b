package api

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rpupo63/blog-admin-console/console"
	"github.com/rpupo63/blog-admin-console/errs"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages maps a page name to its template set, each parsed together with the layout
var pages = parsePages("login", "signup", "dashboard", "editor")

func parsePages(names ...string) map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(names))
	for _, name := range names {
		parsed[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", fmt.Sprintf("templates/%s.html", name)))
	}
	return parsed
}

// pageData is what every page template receives
type pageData struct {
	Title         string
	Notifications []console.Notification
	Email         string
	Dashboard     console.DashboardState
	Editor        console.EditorState
}

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	if !errors.As(err, &apiErr) {
		r.logger.Error().Msg(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		r.WriteJSON(w, ErrorResponse{
			Error:   "Internal Server Error",
			Status:  "error",
			Kind:    errs.KindUnexpected.String(),
			Details: err.Error(),
		})
		return
	}

	response := ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Kind:    apiErr.Kind.String(),
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	if apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}

	w.WriteHeader(apiErr.StatusCode)
	r.WriteJSON(w, response)
}

// Render executes a page template with the workspace's pending notifications
func (r Responder) Render(w http.ResponseWriter, status int, page string, ws *console.Workspace, data pageData) {
	tmpl, ok := pages[page]
	if !ok {
		r.WriteError(w, errs.NewInternalError(fmt.Sprintf("unknown page %q", page)))
		return
	}

	if ws != nil {
		data.Notifications = ws.Inbox.Drain()
	}

	// render into a buffer so a template failure can still produce a clean 500
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error().Err(err).Str("page", page).Msg("error rendering page")
		r.WriteError(w, errs.NewInternalErrorWithCause("error rendering page", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// RenderLoading answers a gated request without a session: the placeholder
// body plus a redirect to where the gate wants the visitor to go.
func (r Responder) RenderLoading(w http.ResponseWriter, to console.Route) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Location", string(to))
	w.WriteHeader(http.StatusSeeOther)
	if _, err := fmt.Fprintf(w, "<!DOCTYPE html><div>%s</div>", console.LoadingPlaceholder); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// FinishAction redirects after a form post to the route the workspace asked
// for, or to fallback when nothing navigated.
func (r Responder) FinishAction(w http.ResponseWriter, req *http.Request, ws *console.Workspace, fallback console.Route) {
	to, ok := ws.Nav.Take()
	if !ok {
		to = fallback
	}
	http.Redirect(w, req, string(to), http.StatusSeeOther)
}
