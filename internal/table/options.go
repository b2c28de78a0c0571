package table

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/pstuifzand/tui-listbind/internal/driver"
	"github.com/pstuifzand/tui-listbind/internal/metrics"
)

// Policy decides what Reload does while a reconciliation is in flight
type Policy uint8

const (
	// PolicyQueue holds the snapshot and applies it after the current one completes
	PolicyQueue Policy = iota
	// PolicyReject returns ErrReconciliationInFlight
	PolicyReject
)

func (p Policy) String() string {
	switch p {
	case PolicyQueue:
		return "queue"
	case PolicyReject:
		return "reject"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy parses "queue" or "reject". The empty string is queue.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "queue":
		return PolicyQueue, nil
	case "reject":
		return PolicyReject, nil
	default:
		return PolicyQueue, fmt.Errorf("unknown reentrancy policy %q", s)
	}
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithMetrics records reconciliations into c
func WithMetrics(c *metrics.Collectors) Option {
	return func(m *Manager) {
		m.metrics = c
	}
}

// WithTracer sets the tracer used for reconcile spans
func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) {
		m.tracer = t
	}
}

// WithPolicy sets the re-entrancy policy
func WithPolicy(p Policy) Option {
	return func(m *Manager) {
		m.policy = p
	}
}

// WithAnimationStyles replaces the animation styles
func WithAnimationStyles(a driver.Animations) Option {
	return func(m *Manager) {
		m.anim = a
	}
}

type reloadOptions struct {
	animated    bool
	animatedSet bool
	done        func(finished bool)
}

// ReloadOption configures a single Reload call
type ReloadOption func(*reloadOptions)

// WithAnimations switches animations on or off for one reload
func WithAnimations(enabled bool) ReloadOption {
	return func(o *reloadOptions) {
		o.animated = enabled
		o.animatedSet = true
	}
}

// OnComplete is called once the reload has been applied to the surface.
// For a queued reload it fires after the reload leaves the queue.
func OnComplete(fn func(finished bool)) ReloadOption {
	return func(o *reloadOptions) {
		o.done = fn
	}
}

func collectReloadOptions(opts []ReloadOption) reloadOptions {
	var o reloadOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o reloadOptions) complete(finished bool) {
	if o.done != nil {
		o.done(finished)
	}
}
