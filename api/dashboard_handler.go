package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type dashboardHandler struct {
	responder Responder
	logger    zerolog.Logger
}

func newDashboardHandler() dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()

	return dashboardHandler{
		responder: NewResponder(logger),
		logger:    logger,
	}
}

// show reloads the post list on every visit. A failed load is reported as a
// notification on the page.
func (h dashboardHandler) show() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := mustWorkspace(r)
		_ = ws.Dashboard.Visit(r.Context())

		h.responder.Render(w, http.StatusOK, "dashboard", ws, pageData{
			Title:     "Dashboard",
			Dashboard: ws.Dashboard.State(),
		})
	}
}
