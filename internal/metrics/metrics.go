// Package metrics exposes Prometheus collectors for list reconciliation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded by Reconciled
const (
	OutcomeFinished    = "finished"
	OutcomeInterrupted = "interrupted"
	OutcomeFullReload  = "full_reload"
	OutcomeError       = "error"
)

// Config configures the collectors
type Config struct {
	Namespace   string
	Subsystem   string
	ConstLabels prometheus.Labels
	Buckets     []float64
	Registry    prometheus.Registerer
}

// Option configures the collectors
type Option func(*Config)

// WithNamespace sets the metrics namespace
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the reconcile duration histogram buckets
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the registerer the collectors are registered with
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "listbind",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collectors records reconciliation activity. A nil *Collectors is valid and
// records nothing.
type Collectors struct {
	reconciliations *prometheus.CounterVec
	edits           *prometheus.CounterVec
	duration        prometheus.Histogram
	queued          prometheus.Counter
	rejected        prometheus.Counter
	queueDepth      prometheus.Gauge
}

// New creates and registers the collectors
func New(opts ...Option) *Collectors {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collectors{
		reconciliations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconciliations_total",
			Help:        "Reconciliations by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		edits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "edits_total",
			Help:        "Structural edits applied by level and operation",
			ConstLabels: config.ConstLabels,
		}, []string{"level", "op"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconcile_duration_seconds",
			Help:        "Time from reload to driver completion",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		queued: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reloads_queued_total",
			Help:        "Reloads queued behind an in-flight reconciliation",
			ConstLabels: config.ConstLabels,
		}),

		rejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reloads_rejected_total",
			Help:        "Reloads rejected while a reconciliation was in flight",
			ConstLabels: config.ConstLabels,
		}),

		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reload_queue_depth",
			Help:        "Reloads waiting for the current reconciliation",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Reconciled records one finished reconciliation
func (c *Collectors) Reconciled(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.reconciliations.WithLabelValues(outcome).Inc()
	if outcome != OutcomeError {
		c.duration.Observe(elapsed.Seconds())
	}
}

// Edits adds n edits of op at level ("section" or "row")
func (c *Collectors) Edits(level, op string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.edits.WithLabelValues(level, op).Add(float64(n))
}

// Queued records a queued reload and the resulting queue depth
func (c *Collectors) Queued(depth int) {
	if c == nil {
		return
	}
	c.queued.Inc()
	c.queueDepth.Set(float64(depth))
}

// Dequeued records the queue depth after a queued reload was taken
func (c *Collectors) Dequeued(depth int) {
	if c == nil {
		return
	}
	c.queueDepth.Set(float64(depth))
}

// Rejected records a rejected reload
func (c *Collectors) Rejected() {
	if c == nil {
		return
	}
	c.rejected.Inc()
}
