// Package telemetry records check outcomes as Prometheus metrics. The CLI is
// short lived, so metrics are written to a file for the node exporter
// textfile collector instead of being served.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexanderjulianmartinez/columnwatch/pkg/types"
)

const namespace = "columnwatch"

type Metrics struct {
	registry *prometheus.Registry
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_outcomes_total",
			Help:      "Check outcomes by check kind and status.",
		}, []string{"kind", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Time spent evaluating a check.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.outcomes, m.duration)
	return m
}

// Observe records one evaluated check. It is a no-op on a nil receiver.
func (m *Metrics) Observe(kind string, status types.Status, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(kind, string(status)).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
