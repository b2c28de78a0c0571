package driver_test

import (
	"testing"

	"github.com/pstuifzand/tui-listbind/internal/driver"
	"github.com/pstuifzand/tui-listbind/internal/driver/drivertest"
	"github.com/pstuifzand/tui-listbind/internal/model"
	"github.com/pstuifzand/tui-listbind/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(id, text string) model.Row {
	return &model.TextRow{ID: id, Text: text}
}

func section(id, header string, rows ...model.Row) *model.Section {
	s := model.NewSection(id, rows...)
	if header != "" {
		s.Header = &model.TitleHeaderFooter{ID: id + "-h", Title: header}
	}
	return s
}

func build(t *testing.T, prev, next model.Snapshot) *plan.Plan {
	t.Helper()
	p, err := plan.Build(prev, next)
	require.NoError(t, err)
	return p
}

// mixedPlan has section deletes, inserts, moves, a nested row plan and a header-only reload
func mixedPlan(t *testing.T) *plan.Plan {
	prev := model.Snapshot{
		section("gone", "G"),
		section("a", "A", row("a1", "one"), row("a2", "two"), row("a3", "three")),
		section("b", "B"),
		section("c", "C1", row("c1", "")),
	}
	next := model.Snapshot{
		section("b", "B"),
		section("a", "A", row("a3", "three"), row("a2", "TWO"), row("a4", "four")),
		section("new", "N"),
		section("c", "C2", row("c1", "")),
	}
	return build(t, prev, next)
}

func TestApplyBatchedOrder(t *testing.T) {
	s := drivertest.NewBatchRecorder(false)
	var finished []bool

	driver.Apply(mixedPlan(t), s, driver.DefaultAnimations(), func(ok bool) {
		finished = append(finished, ok)
	})

	assert.Equal(t, []string{
		"beginBatch",
		"deleteSections [0] automatic",
		"insertSections [2] automatic",
		"moveSection 2->0",
		"insertRows [1:2] automatic",
		"deleteRows [1:0] automatic",
		"moveRow 1:2->1:0",
		"reloadRows [1:1] automatic",
		"endBatch",
		"reloadSections [3] automatic",
	}, s.Calls)
	assert.Equal(t, []bool{true}, finished)
}

func TestApplyFallbackKeepsOrder(t *testing.T) {
	batched := drivertest.NewBatchRecorder(false)
	driver.Apply(mixedPlan(t), batched, driver.DefaultAnimations(), nil)

	plain := drivertest.NewRecorder()
	calls := 0
	driver.Apply(mixedPlan(t), plain, driver.DefaultAnimations(), func(ok bool) {
		calls++
		assert.True(t, ok)
		// completion is synthesised after the final call
		assert.Equal(t, "reloadSections [3] automatic", plain.Calls[len(plain.Calls)-1])
	})

	var withoutMarkers []string
	for _, c := range batched.Calls {
		if c != "beginBatch" && c != "endBatch" {
			withoutMarkers = append(withoutMarkers, c)
		}
	}
	assert.Equal(t, withoutMarkers, plain.Calls)
	assert.Equal(t, 1, calls)
}

func TestApplySectionReloadWaitsForBatchCompletion(t *testing.T) {
	s := drivertest.NewBatchRecorder(true)
	done := 0
	driver.Apply(mixedPlan(t), s, driver.DefaultAnimations(), func(bool) { done++ })

	assert.Equal(t, -1, s.Index("reloadSections"), "reload must wait for the batch")
	assert.Equal(t, 0, done)

	s.Complete(true)
	assert.Greater(t, s.Index("reloadSections"), s.Index("endBatch"))
	assert.Equal(t, 1, done)
}

func TestApplySkipsDeferredReloadWhenBatchFails(t *testing.T) {
	s := drivertest.NewBatchRecorder(true)
	var got []bool
	driver.Apply(mixedPlan(t), s, driver.DefaultAnimations(), func(ok bool) { got = append(got, ok) })

	s.Complete(false)
	assert.Equal(t, -1, s.Index("reloadSections"))
	assert.Equal(t, []bool{false}, got)
}

func TestApplyEmptyPlanTouchesNothing(t *testing.T) {
	s := drivertest.NewBatchRecorder(false)
	done := false
	driver.Apply(&plan.Plan{}, s, driver.DefaultAnimations(), func(ok bool) { done = ok })

	assert.Empty(t, s.Calls)
	assert.True(t, done)
}

func TestApplyHeaderOnlyChange(t *testing.T) {
	prev := model.Snapshot{section("S1", "H1", row("r1", ""), row("r2", ""))}
	next := model.Snapshot{section("S1", "H2", row("r1", ""), row("r2", ""))}

	s := drivertest.NewBatchRecorder(false)
	driver.Apply(build(t, prev, next), s, driver.DefaultAnimations(), nil)

	assert.Equal(t, []string{"beginBatch", "endBatch", "reloadSections [0] automatic"}, s.Calls)
}

func TestApplyUsesAnimationStyles(t *testing.T) {
	prev := model.Snapshot{section("s", "", row("r1", "a"), row("r2", "b"))}
	next := model.Snapshot{section("s", "", row("r2", "B"), row("r3", "c"))}

	anim := driver.DefaultAnimations().
		With(driver.KindInsertRow, driver.AnimationFade).
		With(driver.KindDeleteRow, driver.AnimationLeft)

	s := drivertest.NewRecorder()
	driver.Apply(build(t, prev, next), s, anim, nil)
	assert.Equal(t, []string{
		"insertRows [0:1] fade",
		"deleteRows [0:0] left",
		"reloadRows [0:0] automatic",
	}, s.Calls)

	s.Reset()
	driver.Apply(build(t, prev, next), s, anim.WithEnabled(false), nil)
	for _, c := range s.Calls {
		assert.Contains(t, c, " none", "disabled animations use none: %s", c)
	}
}

type panicSurface struct {
	*drivertest.Recorder
}

func (p panicSurface) InsertSections([]int, driver.Animation) {
	panic("surface exploded")
}

func TestApplyCompletesOnceWhenSurfacePanics(t *testing.T) {
	s := panicSurface{drivertest.NewRecorder()}
	var got []bool

	p := build(t, nil, model.Snapshot{section("s", "")})
	assert.PanicsWithValue(t, "surface exploded", func() {
		driver.Apply(p, s, driver.DefaultAnimations(), func(ok bool) { got = append(got, ok) })
	})
	assert.Equal(t, []bool{false}, got)
}

type doubleCompleter struct {
	*drivertest.Recorder
}

func (d doubleCompleter) PerformBatch(updates func(), completion func(bool)) {
	updates()
	completion(true)
	completion(true)
}

func TestApplyCompletionFiresExactlyOnce(t *testing.T) {
	s := doubleCompleter{drivertest.NewRecorder()}
	calls := 0

	p := build(t, nil, model.Snapshot{section("s", "")})
	driver.Apply(p, s, driver.DefaultAnimations(), func(bool) { calls++ })
	assert.Equal(t, 1, calls)
}

func TestAnimationsFor(t *testing.T) {
	a := driver.Animations{Enabled: true}
	assert.Equal(t, driver.AnimationAutomatic, a.For(driver.KindReloadRow))

	a.Default = driver.AnimationFade
	assert.Equal(t, driver.AnimationFade, a.For(driver.KindReloadRow))

	b := a.With(driver.KindReloadRow, driver.AnimationHighlight)
	assert.Equal(t, driver.AnimationHighlight, b.For(driver.KindReloadRow))
	assert.Equal(t, driver.AnimationFade, a.For(driver.KindReloadRow), "With must not modify the receiver")
}

func TestParseKind(t *testing.T) {
	for _, k := range driver.Kinds {
		got, err := driver.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	k, err := driver.ParseKind("Insert-Section")
	require.NoError(t, err)
	assert.Equal(t, driver.KindInsertSection, k)

	_, err = driver.ParseKind("explode")
	assert.Error(t, err)
}
