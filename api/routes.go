package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupConsoleRoutes wires the HTML console. Every route runs inside a workspace.
func setupConsoleRoutes(r chi.Router, handlers *routeHandlers, workspaces *workspaceStore, gate gateMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(workspaces.middleware)

		r.Get("/login", handlers.authHandler.loginPage())
		r.Post("/login", handlers.authHandler.signIn())
		r.Get("/signup", handlers.authHandler.signupPage())
		r.Post("/signup", handlers.authHandler.signUp())
		r.Post("/logout", handlers.authHandler.signOut())

		// Gated views and editor actions
		r.Group(func(r chi.Router) {
			r.Use(gate.pages)

			r.Get("/", handlers.dashboardHandler.show())
			r.Get("/blogs", handlers.blogPostHandler.editorPage())
			r.Post("/blogs", handlers.blogPostHandler.createBlogPost())
			r.Post("/blogs/update", handlers.blogPostHandler.updateBlogPost())
			r.Post("/blogs/cancel", handlers.blogPostHandler.cancelEdit())
			r.Post("/blogs/upload", handlers.blogPostHandler.uploadImage())
			r.Post("/blogs/keywords", handlers.blogPostHandler.suggestKeywords())
			r.Post("/blogs/{postID}/edit", handlers.blogPostHandler.editBlogPost())
			r.Post("/blogs/{postID}/delete", handlers.blogPostHandler.deleteBlogPost())
		})
	})
}

// setupAPIRoutes exposes the JSON post list to allowed origins
func setupAPIRoutes(r chi.Router, handlers *routeHandlers, workspaces *workspaceStore, gate gateMiddleware, acceptedOrigins []string) {
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   acceptedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(workspaces.middleware)
		r.Use(gate.api)

		r.Get("/blog-posts", handlers.blogPostHandler.getAllBlogPosts())
	})
}

func setupOperationalRoutes(r chi.Router, handlers *routeHandlers, gatherer prometheus.Gatherer) {
	r.Get("/healthz", handlers.healthHandler.health())
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
