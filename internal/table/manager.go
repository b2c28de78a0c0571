// Package table binds snapshots of sections and rows to a rendering surface.
//
// A Manager owns the snapshot the surface currently shows. Reload plans the
// difference to a new snapshot and drives the surface through it; the surface
// then asks the Manager for counts, models, views and sizes.
package table

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pstuifzand/tui-listbind/internal/binding"
	"github.com/pstuifzand/tui-listbind/internal/diff"
	"github.com/pstuifzand/tui-listbind/internal/driver"
	"github.com/pstuifzand/tui-listbind/internal/events"
	"github.com/pstuifzand/tui-listbind/internal/metrics"
	"github.com/pstuifzand/tui-listbind/internal/model"
	"github.com/pstuifzand/tui-listbind/internal/plan"
)

const tracerName = "github.com/pstuifzand/tui-listbind/internal/table"

var (
	// ErrReconciliationInFlight is returned by Reload under PolicyReject
	ErrReconciliationInFlight = errors.New("reconciliation in flight")
	// ErrIndexOutOfRange is returned for paths outside the current snapshot
	ErrIndexOutOfRange = errors.New("index path out of range")
)

// State is the reconciliation state of a Manager
type State uint8

const (
	StateIdle State = iota
	StateInFlight
)

func (s State) String() string {
	if s == StateInFlight {
		return "in_flight"
	}
	return "idle"
}

// Dequeuer is implemented by surfaces that recycle views per template
type Dequeuer interface {
	Dequeue(template string, path model.IndexPath) binding.View
}

// SelectionSource is implemented by surfaces that track selected rows
type SelectionSource interface {
	SelectedPaths() []model.IndexPath
}

type pendingReload struct {
	sections model.Snapshot
	opts     reloadOptions
}

// Manager is the data source of one surface. It is not safe for concurrent
// use; call it from the goroutine that owns the surface.
type Manager struct {
	surface   driver.Surface
	resolver  *binding.Resolver
	listeners *events.Registry
	anim      driver.Animations
	policy    Policy

	log     logrus.FieldLogger
	metrics *metrics.Collectors
	tracer  trace.Tracer

	sections model.Snapshot
	loaded   bool
	state    State
	queue    []pendingReload
	draining bool
}

// New creates a manager for surface with the given row rules. Templates are
// registered with the surface when it implements binding.Registrar.
func New(surface driver.Surface, rows []binding.RowRule, opts ...Option) *Manager {
	m := &Manager{
		surface:   surface,
		resolver:  binding.NewResolver(rows...),
		listeners: events.NewRegistry(),
		anim:      driver.DefaultAnimations(),
		log:       logrus.StandardLogger(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(m)
	}
	if reg, ok := surface.(binding.Registrar); ok {
		m.resolver.Register(reg)
	}
	return m
}

// SetHeaderRules replaces the header rules
func (m *Manager) SetHeaderRules(rules ...binding.HeaderFooterRule) {
	m.resolver.SetHeaders(rules...)
	m.registerHeaderFooter(rules)
}

// SetFooterRules replaces the footer rules
func (m *Manager) SetFooterRules(rules ...binding.HeaderFooterRule) {
	m.resolver.SetFooters(rules...)
	m.registerHeaderFooter(rules)
}

func (m *Manager) registerHeaderFooter(rules []binding.HeaderFooterRule) {
	reg, ok := m.surface.(binding.Registrar)
	if !ok {
		return
	}
	for _, rule := range rules {
		reg.RegisterHeaderFooter(rule.Template, rule.Source)
	}
}

// SetAnimation sets the animation used for kind
func (m *Manager) SetAnimation(kind driver.Kind, anim driver.Animation) {
	m.anim = m.anim.With(kind, anim)
}

// Animations returns the current animation styles
func (m *Manager) Animations() driver.Animations {
	return m.anim
}

// State returns the reconciliation state
func (m *Manager) State() State {
	return m.state
}

// Pending returns the number of queued reloads
func (m *Manager) Pending() int {
	return len(m.queue)
}

// Snapshot returns the snapshot the surface is being driven towards
func (m *Manager) Snapshot() model.Snapshot {
	return m.sections
}

// Reload replaces the displayed sections. The first reload populates the
// surface with ReloadData; later reloads apply the difference. On a duplicate
// key the current snapshot is kept and a *diff.DuplicateKeyError is returned.
func (m *Manager) Reload(sections model.Snapshot, opts ...ReloadOption) error {
	o := collectReloadOptions(opts)

	if m.state == StateInFlight && m.policy == PolicyReject {
		m.metrics.Rejected()
		m.log.WithField("sections", len(sections)).Warn("reload rejected: reconciliation in flight")
		return ErrReconciliationInFlight
	}

	// A reload issued from a completion callback still waits behind the queue.
	if m.state == StateInFlight || len(m.queue) > 0 {
		if err := sections.Validate(); err != nil {
			m.metrics.Reconciled(metrics.OutcomeError, 0)
			return fmt.Errorf("reload: %w", err)
		}
		m.queue = append(m.queue, pendingReload{sections: sections, opts: o})
		m.metrics.Queued(len(m.queue))
		m.log.WithField("pending", len(m.queue)).Debug("reload queued")
		m.drain()
		return nil
	}

	err := m.reconcile(sections, o)
	m.drain()
	return err
}

// ReloadRows replaces the content with a single section holding rows
func (m *Manager) ReloadRows(rows []model.Row, opts ...ReloadOption) error {
	return m.Reload(model.SingleSection(rows), opts...)
}

func (m *Manager) reconcile(next model.Snapshot, o reloadOptions) error {
	start := time.Now()
	ctx, span := m.tracer.Start(context.Background(), "listbind.reconcile",
		trace.WithAttributes(
			attribute.Int("listbind.sections", len(next)),
			attribute.Int("listbind.rows", next.TotalRows()),
		))

	if !m.loaded {
		if err := next.Validate(); err != nil {
			m.fail(span, err)
			return fmt.Errorf("reload: %w", err)
		}
		m.sections = next
		m.loaded = true
		m.surface.ReloadData()
		span.SetAttributes(attribute.Bool("listbind.full_reload", true))
		span.SetStatus(codes.Ok, "")
		span.End()
		m.metrics.Reconciled(metrics.OutcomeFullReload, time.Since(start))
		m.log.WithField("sections", len(next)).Debug("initial reload")
		o.complete(true)
		return nil
	}

	p, err := m.buildPlan(ctx, next)
	if err != nil {
		m.fail(span, err)
		return fmt.Errorf("reload: %w", err)
	}

	m.sections = next
	if p.Empty() {
		span.SetStatus(codes.Ok, "")
		span.End()
		m.metrics.Reconciled(metrics.OutcomeFinished, time.Since(start))
		o.complete(true)
		return nil
	}

	anim := m.anim
	if o.animatedSet {
		anim = anim.WithEnabled(o.animated)
	}

	m.state = StateInFlight
	_, applySpan := m.tracer.Start(ctx, "listbind.apply")
	driver.Apply(p, m.surface, anim, func(finished bool) {
		applySpan.SetAttributes(attribute.Bool("listbind.finished", finished))
		applySpan.End()
		span.SetStatus(codes.Ok, "")
		span.End()
		m.complete(finished, start, o)
	})
	return nil
}

func (m *Manager) buildPlan(ctx context.Context, next model.Snapshot) (*plan.Plan, error) {
	_, span := m.tracer.Start(ctx, "listbind.plan")
	defer span.End()

	p, err := plan.Build(m.sections, next)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sections, rows := p.SectionCounts(), p.RowCounts()
	span.SetAttributes(
		attribute.Int("listbind.section_edits", sections.Total()),
		attribute.Int("listbind.row_edits", rows.Total()),
		attribute.Int("listbind.section_reloads", len(p.Reloads())),
	)
	m.recordEdits("section", sections)
	m.recordEdits("row", rows)

	m.log.WithFields(logrus.Fields{
		"sections": sections.String(),
		"rows":     rows.String(),
	}).Debug("plan built")
	if debugEnabled(m.log) {
		m.log.Debug(p.Dump())
	}
	return p, nil
}

func (m *Manager) recordEdits(level string, c diff.Counts) {
	m.metrics.Edits(level, diff.OpInsert.String(), c.Inserts)
	m.metrics.Edits(level, diff.OpDelete.String(), c.Deletes)
	m.metrics.Edits(level, diff.OpMove.String(), c.Moves)
	m.metrics.Edits(level, diff.OpReplace.String(), c.Replaces)
}

func (m *Manager) complete(finished bool, start time.Time, o reloadOptions) {
	outcome := metrics.OutcomeFinished
	if !finished {
		outcome = metrics.OutcomeInterrupted
		m.log.Warn("batch did not finish, reloading surface")
		m.surface.ReloadData()
	}
	m.metrics.Reconciled(outcome, time.Since(start))
	m.state = StateIdle
	o.complete(finished)
	m.drain()
}

// drain applies queued reloads while the manager is idle. Surfaces that
// complete synchronously re-enter through complete; the draining flag keeps
// that to one loop instead of recursion.
func (m *Manager) drain() {
	if m.draining {
		return
	}
	m.draining = true
	defer func() { m.draining = false }()

	for m.state == StateIdle && len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		m.metrics.Dequeued(len(m.queue))
		if err := m.reconcile(next.sections, next.opts); err != nil {
			m.log.WithError(err).Error("queued reload failed")
			next.opts.complete(false)
		}
	}
}

func (m *Manager) fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
	m.metrics.Reconciled(metrics.OutcomeError, 0)
	m.log.WithError(err).Warn("reload failed, keeping current snapshot")
}

func debugEnabled(log logrus.FieldLogger) bool {
	switch l := log.(type) {
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.DebugLevel)
	case *logrus.Entry:
		return l.Logger.IsLevelEnabled(logrus.DebugLevel)
	}
	return false
}
