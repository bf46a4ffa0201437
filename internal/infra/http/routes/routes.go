// Package routes registers all HTTP routes for the converter.
package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openctemio/inspectcode/internal/config"
	"github.com/openctemio/inspectcode/internal/infra/http/handler"
	"github.com/openctemio/inspectcode/internal/infra/http/middleware"
	"github.com/openctemio/inspectcode/pkg/logger"
)

// Handlers holds all HTTP handlers for route registration.
type Handlers struct {
	Health *handler.HealthHandler
	Report *handler.ReportHandler
}

// New builds the HTTP router with middleware and all routes registered.
func New(cfg *config.Config, log *logger.Logger, h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodySize))

	r.Get("/health", h.Health.Health)
	r.Get("/healthz", h.Health.Health)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/reports", h.Report.Convert)
	})

	return r
}
