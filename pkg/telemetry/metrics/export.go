package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"schoolpulse/exportd/pkg/config"
)

// ExportMetrics tracks metrics for the export endpoint.
//
// Metrics:
//   - schoolpulse_export_requests_total: request count by format and status
//   - schoolpulse_export_request_duration_seconds: request duration by format
//   - schoolpulse_export_rows: rows materialized per export
type ExportMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rows            prometheus.Histogram
}

// NewExportMetrics creates and registers the export metrics with the
// provided registry.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of export requests processed",
			},
			[]string{"format", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of export requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"format"},
		),

		rows: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rows",
				Help:      "Number of rows materialized per export",
				Buckets:   prometheus.ExponentialBuckets(10, 4, 8), // 10 to ~160K rows
			},
		),
	}

	registry.MustRegister(
		em.requestsTotal,
		em.requestDuration,
		em.rows,
	)

	return em
}

// RecordRequest records one completed export request.
//
// Parameters:
//   - format: requested serialization ("csv", "json"); "invalid" for
//     rejected format values
//   - status: "success", "unauthorized", "invalid_request", "error"
//   - duration: request duration
//   - rows: rows materialized, -1 when no query ran
func (em *ExportMetrics) RecordRequest(format, status string, duration time.Duration, rows int) {
	em.requestsTotal.WithLabelValues(format, status).Inc()
	em.requestDuration.WithLabelValues(format).Observe(duration.Seconds())
	if rows >= 0 {
		em.rows.Observe(float64(rows))
	}
}
