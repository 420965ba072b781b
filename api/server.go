package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rpupo63/blog-admin-console/config"
	"github.com/rpupo63/blog-admin-console/console"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// Dependencies are the adapters the console runs on
type Dependencies struct {
	Services console.Services
	Gatherer prometheus.Gatherer
	Database Pinger
}

func NewServer(settings config.Settings, deps Dependencies) (Server, error) {
	if deps.Services.Posts == nil || deps.Services.Auth == nil {
		return Server{}, errors.New("post store and authenticator are required")
	}

	address := fmt.Sprintf("0.0.0.0:%s", settings.Port)
	startupTime := time.Now()

	router := newRouter(deps,
		withStartupTime(startupTime),
		withAcceptedOrigins(settings.AcceptedOrigins),
		withUploadLimit(settings.MaxUploadBytes),
		withWorkspaceTTL(settings.WorkspaceTTL),
		withSecureCookies(settings.CookieSecure),
	)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  settings.ReadTimeout,
		WriteTimeout: settings.WriteTimeout,
		IdleTimeout:  settings.IdleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	startupTime     time.Time
	acceptedOrigins []string
	maxUploadBytes  int64
	workspaceTTL    time.Duration
	secureCookies   bool
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withAcceptedOrigins(origins []string) func(*router) {
	return func(r *router) {
		r.acceptedOrigins = origins
	}
}

func withUploadLimit(maxBytes int64) func(*router) {
	return func(r *router) {
		r.maxUploadBytes = maxBytes
	}
}

func withWorkspaceTTL(ttl time.Duration) func(*router) {
	return func(r *router) {
		r.workspaceTTL = ttl
	}
}

func withSecureCookies(secure bool) func(*router) {
	return func(r *router) {
		r.secureCookies = secure
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	router := router{
		startupTime:    time.Now(),
		maxUploadBytes: 10 << 20,
		workspaceTTL:   12 * time.Hour,
	}
	for _, opt := range opts {
		opt(&router)
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	handlers := initializeHandlers(deps.Services, router.maxUploadBytes, router.startupTime, deps.Database)
	workspaces := newWorkspaceStore(deps.Services, router.workspaceTTL, router.secureCookies)
	gate := newGateMiddleware()

	setupConsoleRoutes(chiRouter, handlers, workspaces, gate)
	setupAPIRoutes(chiRouter, handlers, workspaces, gate, router.acceptedOrigins)
	setupOperationalRoutes(chiRouter, handlers, deps.Gatherer)

	return chiRouter
}

// Run serves until ctx is cancelled, then shuts down within timeout
func (s Server) Run(ctx context.Context, timeout time.Duration) error {
	errChannel := make(chan error, 1)
	go func() {
		log.Info().Msgf("Server started on: %s", s.Addr)
		errChannel <- s.ListenAndServe()
	}()

	select {
	case err := <-errChannel:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.ShutdownGracefully(timeout)
		return nil
	}
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
