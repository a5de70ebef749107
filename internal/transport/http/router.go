package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"estimmo/internal/config"
	apierrors "estimmo/internal/errors"
	"estimmo/internal/middleware"
	"estimmo/internal/services"
)

// NewRouter assembles the full HTTP surface: the estimation form, the
// JSON API, the health check and the Prometheus endpoint, behind the
// standard middleware chain.
func NewRouter(cfg config.ServerConfig, estimateService *services.EstimateService, healthService *services.HealthService, logger *slog.Logger) chi.Router {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	errorHandler := apierrors.NewErrorHandler(logger, false)
	estimateHandler := NewEstimateHandler(estimateService, logger, errorHandler)
	healthHandler := NewHealthHandler(healthService, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Timeout(cfg.WriteTimeout, logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Compress(5))
	r.Use(metrics.Handler)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	r.Get("/", ServeEstimationForm(estimateService.Metadata(), logger))
	r.Route("/api", func(r chi.Router) {
		r.Mount("/estimate", estimateHandler.Routes())
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.Readiness)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}
