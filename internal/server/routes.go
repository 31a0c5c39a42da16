package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"companyfinder/internal/fetcher"
	"companyfinder/internal/finder"
	"companyfinder/internal/handlers"
	"companyfinder/internal/handlers/api"
	"companyfinder/internal/metrics"
	"companyfinder/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(f *finder.Finder, sources []fetcher.Source) {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg.APIToken)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(f)
	redirectHandler := handlers.NewRedirectHandler(s.Cfg)
	matchHandler := api.NewMatchHandler(f, s.Cfg)
	datasetHandler := api.NewDatasetHandler(f, sources)

	// Operational routes
	s.App.Get("/healthz", healthHandler.Healthz)
	s.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// JSON API - token required when API_TOKEN is set
	v1 := s.App.Group("/api/v1", authMiddleware.RequireToken)
	v1.Get("/match", matchHandler.Get)
	v1.Post("/match", matchHandler.Post)
	v1.Post("/refresh", datasetHandler.Refresh)
	v1.Get("/status", datasetHandler.Status)
	v1.Delete("/cache", datasetHandler.Clear)

	// Company site redirects for overlay links
	s.App.Get("/go/company/:key", redirectHandler.Company)
	s.App.Get("/go/search/:slug", redirectHandler.Search)
}
