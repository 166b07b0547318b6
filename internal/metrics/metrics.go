package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	// MessagesProcessed tracks queue messages per outcome
	MessagesProcessed *prometheus.CounterVec

	// MessageFailures tracks batch failures per failure type and provider error code
	MessageFailures *prometheus.CounterVec

	// RecoveryCounter tracks the counter value written or observed per attempt
	RecoveryCounter prometheus.Histogram

	// BackoffSeconds tracks the jittered hold before snapshot creation
	BackoffSeconds prometheus.Histogram

	// BatchDuration tracks the wall time of one batch
	BatchDuration prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		MessagesProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapshot_recovery_messages_total",
				Help: "Total number of failure events processed",
			},
			[]string{"outcome"},
		),
		MessageFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapshot_recovery_failures_total",
				Help: "Total number of messages returned for redelivery",
			},
			[]string{"failure_type", "error_code"},
		),
		RecoveryCounter: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "snapshot_recovery_counter_value",
				Help:    "Remaining retry budget of recovered lineages",
				Buckets: prometheus.LinearBuckets(0, 1, 6),
			},
		),
		BackoffSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "snapshot_recovery_backoff_seconds",
				Help:    "Delay held before snapshot creation",
				Buckets: prometheus.LinearBuckets(15, 10, 7),
			},
		),
		BatchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "snapshot_recovery_batch_duration_seconds",
				Help:    "Wall time of one queue batch",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveBatch records the duration of a batch that started at start.
func (m *Metrics) ObserveBatch(start time.Time) {
	m.BatchDuration.Observe(time.Since(start).Seconds())
}

// Pusher sends the registry to a Pushgateway.
type Pusher struct {
	pusher *push.Pusher
}

// NewPusher returns nil when url is empty.
func NewPusher(m *Metrics, url, job string, grouping map[string]string) *Pusher {
	if url == "" {
		return nil
	}
	p := push.New(url, job).Gatherer(m.registry)
	for k, v := range grouping {
		if v != "" {
			p = p.Grouping(k, v)
		}
	}
	return &Pusher{pusher: p}
}

// Push replaces the metrics of this job and grouping on the gateway.
func (p *Pusher) Push() error {
	if p == nil {
		return nil
	}
	if err := p.pusher.Push(); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
