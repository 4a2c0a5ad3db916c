package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes gateway operation metrics in Prometheus format. Metrics
// are registered in a dedicated registry so they do not interfere with the
// default global registry.
type Collector struct {
	registry *prometheus.Registry

	opCount    *prometheus.CounterVec
	opDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	opCount := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contestscope",
		Name:      "gateway_operation_count",
		Help:      "Total gateway operations by method and outcome.",
	}, []string{"operation", "outcome"})

	opDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "contestscope",
		Name:      "gateway_operation_duration_seconds",
		Help:      "Gateway operation latency by method.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
	}, []string{"operation"})

	registry.MustRegister(opCount)
	registry.MustRegister(opDuration)

	return &Collector{
		registry:   registry,
		opCount:    opCount,
		opDuration: opDuration,
	}
}

// Observe records one finished gateway operation.
func (c *Collector) Observe(operation, outcome string, elapsed time.Duration) {
	c.opCount.WithLabelValues(operation, outcome).Inc()
	c.opDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler returns the Prometheus exposition handler for this registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
