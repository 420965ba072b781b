package api

import (
	"time"

	"github.com/rpupo63/blog-admin-console/console"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(services console.Services, maxUploadBytes int64, startupTime time.Time, db Pinger) *routeHandlers {
	return &routeHandlers{
		authHandler:      newAuthHandler(),
		dashboardHandler: newDashboardHandler(),
		blogPostHandler:  newBlogPostHandler(services.Posts, maxUploadBytes),
		healthHandler:    newHealthHandler(startupTime, db),
	}
}
