package table

import (
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listbind/internal/binding"
	"github.com/pstuifzand/tui-listbind/internal/diff"
	"github.com/pstuifzand/tui-listbind/internal/driver"
	"github.com/pstuifzand/tui-listbind/internal/driver/drivertest"
	"github.com/pstuifzand/tui-listbind/internal/events"
	"github.com/pstuifzand/tui-listbind/internal/metrics"
	"github.com/pstuifzand/tui-listbind/internal/model"
)

func row(id, text string) model.Row {
	return &model.TextRow{ID: id, Text: text}
}

func rows(ids ...string) []model.Row {
	out := make([]model.Row, len(ids))
	for i, id := range ids {
		out[i] = row(id, id)
	}
	return out
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.DebugLevel)
	return log
}

func textRules() []binding.RowRule {
	return []binding.RowRule{
		binding.RowFor("text", binding.Inline(), binding.Fixed(1), func(v binding.View, r *model.TextRow) {
			v.(*textView).text = r.Text
		}),
	}
}

type textView struct {
	template string
	text     string
}

// surface is a batching recorder that also dequeues views and reports a selection
type surface struct {
	*drivertest.BatchRecorder
	registered []string
	selected   []model.IndexPath
}

func newSurface(deferCompletion bool) *surface {
	return &surface{BatchRecorder: drivertest.NewBatchRecorder(deferCompletion)}
}

func (s *surface) RegisterRow(template string, source binding.Source) {
	s.registered = append(s.registered, "row:"+template)
}

func (s *surface) RegisterHeaderFooter(template string, source binding.Source) {
	s.registered = append(s.registered, "hf:"+template)
}

func (s *surface) Dequeue(template string, path model.IndexPath) binding.View {
	return &textView{template: template}
}

func (s *surface) SelectedPaths() []model.IndexPath {
	return s.selected
}

func newManager(s driver.Surface, opts ...Option) *Manager {
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(s, textRules(), opts...)
}

func TestInitialReloadUsesReloadData(t *testing.T) {
	s := newSurface(false)
	m := newManager(s)

	var done []bool
	require.NoError(t, m.ReloadRows(rows("a", "b"), OnComplete(func(ok bool) { done = append(done, ok) })))

	assert.Equal(t, []string{"reloadData"}, s.Calls)
	assert.Equal(t, []bool{true}, done)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 1, m.NumberOfSections())
	assert.Equal(t, 2, m.NumberOfRows(0))
	assert.Equal(t, []string{"row:text"}, s.registered)
}

func TestSecondReloadDiffs(t *testing.T) {
	s := newSurface(false)
	m := newManager(s)
	require.NoError(t, m.ReloadRows(rows("a", "b", "c")))
	s.Reset()

	require.NoError(t, m.ReloadRows([]model.Row{row("a", "a"), row("c", "c"), row("d", "d")}))

	assert.Equal(t, []string{
		"beginBatch",
		"insertRows [0:2] automatic",
		"deleteRows [0:1] automatic",
		"endBatch",
	}, s.Calls)
	assert.Equal(t, StateIdle, m.State())
}

func TestIdenticalReloadTouchesNothing(t *testing.T) {
	s := newSurface(false)
	m := newManager(s)
	require.NoError(t, m.ReloadRows(rows("a", "b")))
	s.Reset()

	called := false
	require.NoError(t, m.ReloadRows(rows("a", "b"), OnComplete(func(ok bool) { called = ok })))
	assert.Empty(t, s.Calls)
	assert.True(t, called)
}

func TestDuplicateKeyKeepsSnapshot(t *testing.T) {
	s := newSurface(false)
	m := newManager(s)
	require.NoError(t, m.ReloadRows(rows("a", "b")))
	s.Reset()

	err := m.ReloadRows(rows("a", "x", "a"))
	require.Error(t, err)
	var dup *diff.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Key)

	assert.Empty(t, s.Calls)
	assert.Equal(t, 2, m.NumberOfRows(0))
	got, err := m.ModelAt(model.Path(0, 1))
	require.NoError(t, err)
	assert.Equal(t, "b", got.Key())
}

func TestDuplicateKeyOnInitialReload(t *testing.T) {
	s := newSurface(false)
	m := newManager(s)

	err := m.Reload(model.Snapshot{model.NewSection("s"), model.NewSection("s")})
	var dup *diff.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Empty(t, s.Calls)
	assert.Equal(t, 0, m.NumberOfSections())
}

func TestRejectPolicy(t *testing.T) {
	s := newSurface(true)
	reg := prometheus.NewRegistry()
	m := newManager(s, WithPolicy(PolicyReject), WithMetrics(metrics.New(metrics.WithRegistry(reg))))
	require.NoError(t, m.ReloadRows(rows("a")))
	require.NoError(t, m.ReloadRows(rows("a", "b")))
	assert.Equal(t, StateInFlight, m.State())

	err := m.ReloadRows(rows("c"))
	assert.True(t, errors.Is(err, ErrReconciliationInFlight))
	assert.Equal(t, 0, m.Pending())

	// the in-flight snapshot is already served to the surface
	assert.Equal(t, 2, m.NumberOfRows(0))

	s.Complete(true)
	assert.Equal(t, StateIdle, m.State())
	assert.NoError(t, m.ReloadRows(rows("c")))
}

func TestQueuePolicyAppliesInOrder(t *testing.T) {
	s := newSurface(true)
	m := newManager(s)
	require.NoError(t, m.ReloadRows(rows("a")))

	var order []string
	mark := func(name string) ReloadOption {
		return OnComplete(func(bool) { order = append(order, name) })
	}

	require.NoError(t, m.ReloadRows(rows("a", "b"), mark("first")))
	require.NoError(t, m.ReloadRows(rows("b"), mark("second")))
	require.NoError(t, m.ReloadRows(rows("b", "c"), mark("third")))
	assert.Equal(t, 2, m.Pending())
	assert.Equal(t, 2, m.NumberOfRows(0))

	s.Complete(true)
	assert.Equal(t, []string{"first"}, order)
	assert.Equal(t, 1, m.Pending())
	assert.Equal(t, StateInFlight, m.State())
	assert.Equal(t, 1, m.NumberOfRows(0))

	s.Complete(true)
	s.Complete(true)
	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0, s.Pending())

	first, _ := m.ModelAt(model.Path(0, 0))
	second, _ := m.ModelAt(model.Path(0, 1))
	assert.Equal(t, "b", first.Key())
	assert.Equal(t, "c", second.Key())
}

func TestQueuedReloadsWithSynchronousSurface(t *testing.T) {
	s := newSurface(false)
	m := newManager(s)
	require.NoError(t, m.ReloadRows(rows("a")))

	// a reload issued from a completion callback applies after that completion
	var got []int
	require.NoError(t, m.ReloadRows(rows("a", "b"), OnComplete(func(bool) {
		got = append(got, m.NumberOfRows(0))
		require.NoError(t, m.ReloadRows(rows("a", "b", "c"), OnComplete(func(bool) {
			got = append(got, m.NumberOfRows(0))
		})))
	})))

	assert.Equal(t, []int{2, 3}, got)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0, m.Pending())
}

func TestQueuedDuplicateKeyRejectedImmediately(t *testing.T) {
	s := newSurface(true)
	m := newManager(s)
	require.NoError(t, m.ReloadRows(rows("a")))
	require.NoError(t, m.ReloadRows(rows("a", "b")))

	err := m.ReloadRows(rows("x", "x"))
	var dup *diff.DuplicateKeyError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, 0, m.Pending())
}

func TestInterruptedBatchReloadsData(t *testing.T) {
	s := newSurface(true)
	m := newManager(s)
	require.NoError(t, m.ReloadRows(rows("a")))
	s.Reset()

	var finished []bool
	require.NoError(t, m.ReloadRows(rows("a", "b"), OnComplete(func(ok bool) { finished = append(finished, ok) })))
	s.Complete(false)

	assert.Equal(t, []bool{false}, finished)
	assert.Equal(t, "reloadData", s.Calls[len(s.Calls)-1])
	assert.Equal(t, StateIdle, m.State())
}

func TestReloadWithoutAnimations(t *testing.T) {
	s := newSurface(false)
	m := newManager(s)
	m.SetAnimation(driver.KindInsertRow, driver.AnimationFade)
	require.NoError(t, m.ReloadRows(rows("a")))
	s.Reset()

	require.NoError(t, m.ReloadRows(rows("a", "b")))
	assert.Contains(t, s.Calls, "insertRows [0:1] fade")

	s.Reset()
	require.NoError(t, m.ReloadRows(rows("a", "b", "c"), WithAnimations(false)))
	assert.Contains(t, s.Calls, "insertRows [0:2] none")
}

func TestViewForConfiguresDequeuedView(t *testing.T) {
	s := newSurface(false)
	m := newManager(s)
	require.NoError(t, m.ReloadRows([]model.Row{row("a", "hello")}))

	v, err := m.ViewFor(model.Path(0, 0))
	require.NoError(t, err)
	tv := v.(*textView)
	assert.Equal(t, "text", tv.template)
	assert.Equal(t, "hello", tv.text)
	assert.Equal(t, 1, m.RowHeight(model.Path(0, 0)))
	assert.Equal(t, 0, m.RowHeight(model.Path(0, 5)))

	_, err = m.ViewFor(model.Path(0, 5))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

type unknownRow struct{}

func (unknownRow) Key() string                  { return "u" }
func (unknownRow) ContentEquals(model.Row) bool { return true }

func TestViewForWithoutMatchingTemplate(t *testing.T) {
	m := newManager(newSurface(false))
	require.NoError(t, m.ReloadRows([]model.Row{unknownRow{}}))

	_, err := m.ViewFor(model.Path(0, 0))
	var nm *binding.NoMatchingTemplateError
	assert.ErrorAs(t, err, &nm)
}

func TestHeadersAndFooters(t *testing.T) {
	s := newSurface(false)
	m := newManager(s)
	m.SetHeaderRules(binding.HeaderFooterFor("title", binding.Inline(), binding.Fixed(2), func(v binding.View, h *model.TitleHeaderFooter) {
		v.(*textView).text = h.Title
	}))

	sec := model.NewSection("fruit", row("apple", "Apple"))
	sec.Header = model.NewTitle("fh", "Fruit")
	sec.Footer = model.NewTitle("ff", "1 item")
	plain := model.NewSection("plain", row("x", "x"))
	require.NoError(t, m.Reload(model.Snapshot{sec, plain}))

	assert.Contains(t, s.registered, "hf:title")
	assert.Equal(t, "Fruit", m.HeaderTitle(0))
	assert.Equal(t, "1 item", m.FooterTitle(0))
	assert.Equal(t, "", m.HeaderTitle(1))
	assert.Equal(t, "", m.HeaderTitle(7))

	v, err := m.HeaderView(0)
	require.NoError(t, err)
	assert.Equal(t, "Fruit", v.(*textView).text)
	assert.Equal(t, 2, m.HeaderHeight(0))
	assert.Equal(t, 0, m.HeaderHeight(1))

	// no footer rules: fall back to the title
	v, err = m.FooterView(0)
	assert.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, binding.Automatic, m.FooterHeight(0))
}

func TestSelectionAndEvents(t *testing.T) {
	s := newSurface(false)
	m := newManager(s)
	require.NoError(t, m.ReloadRows(rows("a", "b", "c")))

	s.selected = []model.IndexPath{model.Path(0, 2), model.Path(0, 9), model.Path(0, 0)}
	selected := m.SelectedModels()
	require.Len(t, selected, 2)
	assert.Equal(t, "c", selected[0].Key())
	assert.Equal(t, "a", selected[1].Key())

	var got []string
	m.Listen("log", func(ev events.Event) { got = append(got, ev.String()) })
	require.NoError(t, m.Select(model.Path(0, 1)))
	require.NoError(t, m.InvokeAction(model.Path(0, 0), "open"))
	require.NoError(t, m.InvokeHeaderFooterAction(0, false, "collapse"))
	require.NoError(t, m.Deselect(model.Path(0, 1)))
	assert.ErrorIs(t, m.Select(model.Path(3, 0)), ErrIndexOutOfRange)
	assert.ErrorIs(t, m.InvokeHeaderFooterAction(4, true, "x"), ErrIndexOutOfRange)

	m.Unlisten("log")
	require.NoError(t, m.Select(model.Path(0, 0)))

	assert.Equal(t, []string{
		"select 0:1 b",
		"action 0:0 a cta=open",
		"header_footer_action 0:-1  cta=collapse",
		"deselect 0:1 b",
	}, got)
}

func TestSelectedModelsWithoutSelectionSource(t *testing.T) {
	m := newManager(drivertest.NewRecorder())
	require.NoError(t, m.ReloadRows(rows("a")))
	assert.Nil(t, m.SelectedModels())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("reject")
	require.NoError(t, err)
	assert.Equal(t, PolicyReject, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyQueue, p)

	_, err = ParsePolicy("drop")
	assert.Error(t, err)
	assert.Equal(t, "reject", PolicyReject.String())
	assert.Equal(t, "in_flight", StateInFlight.String())
}
