package api

import "github.com/rpupo63/blog-admin-console/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler      authHandler
	dashboardHandler dashboardHandler
	blogPostHandler  blogPostHandler
	healthHandler    healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// BlogPostCollection is the JSON list of blog posts, newest first
type BlogPostCollection struct {
	BlogPosts []models.BlogPost `json:"blogPosts"`
	Total     int               `json:"total"`
}

type healthResponse struct {
	Status    string `json:"status"`
	StartedAt string `json:"startedAt"`
	Uptime    string `json:"uptime"`
	Database  string `json:"database,omitempty"`
}
