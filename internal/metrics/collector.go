package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus series exported at /metrics.
type Collector struct {
	registry *prometheus.Registry

	chatRequests    *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

// NewCollector registers the chat metrics on registry, or on a fresh
// registry when nil.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		chatRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nexus",
				Subsystem: "chat",
				Name:      "requests_total",
				Help:      "Chat proxy requests by method and response status.",
			},
			[]string{"method", "status"},
		),
		upstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "nexus",
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Latency of generation API calls.",
				// LLM latencies, 100ms to 30s
				Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(c.chatRequests, c.upstreamLatency)
	return c
}

func (c *Collector) RecordRequest(method string, status int) {
	c.chatRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (c *Collector) RecordUpstream(outcome string, duration time.Duration) {
	c.upstreamLatency.WithLabelValues(outcome).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
