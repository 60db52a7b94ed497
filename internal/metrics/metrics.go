package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	// Invocation metrics
	InvocationsTotal   *prometheus.CounterVec
	InvocationDuration prometheus.Histogram
	EventsRelayedTotal prometheus.Counter

	// Mirror metrics
	MirrorObserversActive    prometheus.Gauge
	MirrorEventsDroppedTotal prometheus.Counter

	// Probe metrics
	ProbeRunsTotal *prometheus.CounterVec
	ProbeDuration  prometheus.Histogram
}

// NewMetrics creates and registers all metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		// Invocation metrics
		InvocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invocations_total",
				Help: "Total number of entrypoint invocations",
			},
			[]string{"status"},
		),
		InvocationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "invocation_duration_seconds",
				Help:    "Duration of entrypoint invocations in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		EventsRelayedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "events_relayed_total",
				Help: "Total number of graph events relayed to callers",
			},
		),

		// Mirror metrics
		MirrorObserversActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mirror_observers_active",
				Help: "Number of currently attached mirror observers",
			},
		),
		MirrorEventsDroppedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mirror_events_dropped_total",
				Help: "Total number of mirrored events dropped for slow observers",
			},
		),

		// Probe metrics
		ProbeRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "probe_runs_total",
				Help: "Total number of gateway probe runs",
			},
			[]string{"status"},
		),
		ProbeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "probe_duration_seconds",
				Help:    "Duration of gateway probe runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	// Register all metrics
	m.registerMetrics()

	return m
}

// registerMetrics registers all metrics with the registry
func (m *Metrics) registerMetrics() {
	m.registry.MustRegister(m.InvocationsTotal)
	m.registry.MustRegister(m.InvocationDuration)
	m.registry.MustRegister(m.EventsRelayedTotal)

	m.registry.MustRegister(m.MirrorObserversActive)
	m.registry.MustRegister(m.MirrorEventsDroppedTotal)

	m.registry.MustRegister(m.ProbeRunsTotal)
	m.registry.MustRegister(m.ProbeDuration)
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
