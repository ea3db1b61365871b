// Package metrics exposes Prometheus metrics for the export service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"schoolpulse/exportd/pkg/config"
)

// Collector owns the metrics registry and the metric families the service
// records.
type Collector struct {
	registry *prometheus.Registry

	// Export is the set of export endpoint metrics.
	Export *ExportMetrics
}

// NewCollector creates a registry with process and Go runtime collectors
// plus the export metrics.
func NewCollector(cfg *config.MetricsConfig) *Collector {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry: registry,
		Export:   NewExportMetrics(cfg, registry),
	}
}

// Handler returns the HTTP handler for the Prometheus metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}

// Registry exposes the underlying registry for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
