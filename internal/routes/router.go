package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/gonyrida/sitedaily/internal/api"
	"github.com/gonyrida/sitedaily/internal/config"
	"github.com/gonyrida/sitedaily/internal/db"
	"github.com/gonyrida/sitedaily/internal/jobs"
	"github.com/gonyrida/sitedaily/internal/logging"
	"github.com/gonyrida/sitedaily/internal/metrics"
	"github.com/gonyrida/sitedaily/internal/middleware"
)

// RegisterRoutes wires the chi router, middleware stack, handlers and
// background jobs.
func RegisterRoutes(cfg *config.Config, deps *api.Dependencies, metricsReg *metrics.MetricsRegistry, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	handlers := api.NewHandlers(deps)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTSecret))

		r.Get("/reports/by-date/{date}", handlers.GetReportByDate)
		r.Get("/reports/{id}", handlers.GetReportByID)
		r.Post("/reports", handlers.SaveReport)
		r.Post("/reports/{id}/autosave", handlers.AutoSaveReport)
		r.Post("/reports/submit", handlers.SubmitReport)
		r.Delete("/reports/{id}", handlers.DeleteReport)
	})

	// Scheduled retention purge
	retentionJob := jobs.NewRetentionJob(deps.Repo.Reports, metricsReg, cfg.RetentionKeepFor)
	go retentionJob.RunScheduled(context.Background(), cfg.RetentionInterval)

	return r
}
