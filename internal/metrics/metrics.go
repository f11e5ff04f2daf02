package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the report service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Report Metrics
	ReportsSavedTotal     prometheus.Counter
	ReportsSubmittedTotal prometheus.Counter
	AutoSavesTotal        prometheus.CounterVec
	RetentionJobDuration  prometheus.HistogramVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitedaily_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sitedaily_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sitedaily_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitedaily_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitedaily_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Report Metrics
		ReportsSavedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sitedaily_reports_saved_total",
				Help: "Total report create/upsert operations",
			},
		),
		ReportsSubmittedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sitedaily_reports_submitted_total",
				Help: "Total reports transitioned to submitted",
			},
		),
		AutoSavesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitedaily_autosaves_total",
				Help: "Total autosave partial updates by outcome",
			},
			[]string{"outcome"},
		),
		RetentionJobDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sitedaily_retention_job_duration_seconds",
				Help:    "Retention job execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"job_name"},
		),
	}
}
