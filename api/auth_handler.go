package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/blog-admin-console/console"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
}

func newAuthHandler() authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
	}
}

// loginPage shows the sign-in form. Signed-in visitors go straight to the dashboard.
func (h authHandler) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := mustWorkspace(r)
		if ws.Sessions.Current() != nil {
			http.Redirect(w, r, string(console.RouteDashboard), http.StatusSeeOther)
			return
		}
		h.responder.Render(w, http.StatusOK, "login", ws, pageData{Title: "Login"})
	}
}

func (h authHandler) signIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := mustWorkspace(r)
		email, password := credentialsFromForm(r)

		if err := ws.Account.SignIn(r.Context(), email, password); err != nil {
			h.responder.Render(w, http.StatusOK, "login", ws, pageData{Title: "Login", Email: email})
			return
		}
		h.responder.FinishAction(w, r, ws, console.RouteDashboard)
	}
}

func (h authHandler) signupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.Render(w, http.StatusOK, "signup", mustWorkspace(r), pageData{Title: "Sign Up"})
	}
}

func (h authHandler) signUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := mustWorkspace(r)
		email, password := credentialsFromForm(r)

		if err := ws.Account.SignUp(r.Context(), email, password); err != nil {
			h.responder.Render(w, http.StatusOK, "signup", ws, pageData{Title: "Sign Up", Email: email})
			return
		}
		h.responder.FinishAction(w, r, ws, console.RouteLogin)
	}
}

func (h authHandler) signOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := mustWorkspace(r)
		if err := ws.Account.SignOut(r.Context()); err != nil {
			h.logger.Warn().Err(err).Msg("sign out finished with a remote error")
		}
		h.responder.FinishAction(w, r, ws, console.RouteLogin)
	}
}

func credentialsFromForm(r *http.Request) (email, password string) {
	if err := r.ParseForm(); err != nil {
		return "", ""
	}
	return strings.TrimSpace(r.PostForm.Get("email")), r.PostForm.Get("password")
}

// mustWorkspace is only used behind the workspace middleware
func mustWorkspace(r *http.Request) *console.Workspace {
	ws, ok := ctxGetWorkspace(r.Context())
	if !ok {
		panic("api: request has no workspace")
	}
	return ws
}
