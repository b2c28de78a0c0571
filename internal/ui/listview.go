package ui

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/pstuifzand/tui-listbind/internal/binding"
	"github.com/pstuifzand/tui-listbind/internal/model"
)

// DataSource is what the list view queries while laying out and drawing.
// *table.Manager implements it.
type DataSource interface {
	NumberOfSections() int
	NumberOfRows(section int) int
	ModelAt(path model.IndexPath) (model.Row, error)
	ViewFor(path model.IndexPath) (binding.View, error)
	RowHeight(path model.IndexPath) int
	HeaderView(section int) (binding.View, error)
	HeaderHeight(section int) int
	FooterView(section int) (binding.View, error)
	FooterHeight(section int) int
	HeaderTitle(section int) string
	FooterTitle(section int) string
}

// Stats counts structural work done by the list view
type Stats struct {
	FullReloads  int
	Batches      int
	Inconsistent int
	ViewsCreated int
}

type flashStart struct {
	color tcell.Color
	at    time.Time
}

// ListView is a sectioned tcell list. It implements the structural update
// primitives and template registration a table manager drives.
type ListView struct {
	screen *Screen
	source DataSource
	log    logrus.FieldLogger

	rowSources map[string]binding.Source
	hfSources  map[string]binding.Source
	factories  map[string]func() binding.View

	// views handed out this frame and views free for reuse, per template
	inUse map[string][]binding.View
	free  map[string][]binding.View

	counts []int
	batch  *batchState

	cursor    model.IndexPath
	cursorKey string
	selected  map[string]bool
	offset    int

	flashes  map[string]flashStart
	flashFor time.Duration
	now      func() time.Time
	post     func(fn func())

	stats Stats
}

// ListOption configures a ListView
type ListOption func(*ListView)

// WithListLogger sets the logger for consistency warnings
func WithListLogger(log logrus.FieldLogger) ListOption {
	return func(lv *ListView) {
		lv.log = log
	}
}

// WithFlashDuration sets how long inserted and reloaded rows stay highlighted.
// Batch completion is reported after the same delay.
func WithFlashDuration(d time.Duration) ListOption {
	return func(lv *ListView) {
		lv.flashFor = d
	}
}

// WithScheduler sets the function used to run delayed completions on the UI loop
func WithScheduler(post func(fn func())) ListOption {
	return func(lv *ListView) {
		lv.post = post
	}
}

// WithClock replaces time.Now for flash progress
func WithClock(now func() time.Time) ListOption {
	return func(lv *ListView) {
		lv.now = now
	}
}

// NewListView creates an empty list view drawing on screen
func NewListView(screen *Screen, opts ...ListOption) *ListView {
	lv := &ListView{
		screen:     screen,
		log:        logrus.StandardLogger(),
		rowSources: make(map[string]binding.Source),
		hfSources:  make(map[string]binding.Source),
		factories:  make(map[string]func() binding.View),
		inUse:      make(map[string][]binding.View),
		free:       make(map[string][]binding.View),
		selected:   make(map[string]bool),
		flashes:    make(map[string]flashStart),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(lv)
	}
	return lv
}

// SetDataSource sets the data source and reloads
func (lv *ListView) SetDataSource(source DataSource) {
	lv.source = source
	lv.ReloadData()
}

// Stats returns the structural work counters
func (lv *ListView) Stats() Stats {
	return lv.stats
}

// RegisterRow registers a row template
func (lv *ListView) RegisterRow(template string, source binding.Source) {
	lv.rowSources[template] = source
}

// RegisterHeaderFooter registers a header or footer template
func (lv *ListView) RegisterHeaderFooter(template string, source binding.Source) {
	lv.hfSources[template] = source
}

// DefineTemplate supplies the view factory for an external template identifier
func (lv *ListView) DefineTemplate(name string, factory func() binding.View) {
	lv.factories[name] = factory
}

// Dequeue returns a view for template, reusing one released by the previous
// frame when possible. Paths with row -1 address headers and footers.
func (lv *ListView) Dequeue(template string, path model.IndexPath) binding.View {
	if free := lv.free[template]; len(free) > 0 {
		view := free[len(free)-1]
		lv.free[template] = free[:len(free)-1]
		lv.inUse[template] = append(lv.inUse[template], view)
		return view
	}

	view := lv.create(template, path.Row < 0)
	if view != nil {
		lv.stats.ViewsCreated++
		lv.inUse[template] = append(lv.inUse[template], view)
	}
	return view
}

func (lv *ListView) create(template string, headerFooter bool) binding.View {
	sources := lv.rowSources
	if headerFooter {
		sources = lv.hfSources
	}
	source, ok := sources[template]
	if !ok {
		return nil
	}

	switch source.Kind {
	case binding.SourceInline:
		if headerFooter {
			return NewTitleView(false)
		}
		return NewTextCell()
	case binding.SourceExternal:
		factory, ok := lv.factories[source.Name]
		if !ok {
			lv.log.WithFields(logrus.Fields{"template": template, "name": source.Name}).Error("external template is not defined")
			return nil
		}
		return factory()
	case binding.SourceType:
		if source.Factory != nil {
			return source.Factory()
		}
	}
	return nil
}

// recycle releases every view handed out since the last frame
func (lv *ListView) recycle() {
	for template, views := range lv.inUse {
		lv.free[template] = append(lv.free[template], views...)
		lv.inUse[template] = views[:0]
	}
}

// PoolSize returns the number of views held for template, in use or free
func (lv *ListView) PoolSize(template string) int {
	return len(lv.inUse[template]) + len(lv.free[template])
}

func (lv *ListView) readCounts() []int {
	if lv.source == nil {
		return nil
	}
	counts := make([]int, lv.source.NumberOfSections())
	for i := range counts {
		counts[i] = lv.source.NumberOfRows(i)
	}
	return counts
}

func (lv *ListView) keyAt(path model.IndexPath) string {
	if lv.source == nil {
		return ""
	}
	row, err := lv.source.ModelAt(path)
	if err != nil || row == nil {
		return ""
	}
	return row.Key()
}

// paths returns every row path in display order
func (lv *ListView) paths() []model.IndexPath {
	var paths []model.IndexPath
	for s, n := range lv.counts {
		for r := 0; r < n; r++ {
			paths = append(paths, model.Path(s, r))
		}
	}
	return paths
}

// Cursor returns the row under the cursor; ok is false for an empty list
func (lv *ListView) Cursor() (model.IndexPath, bool) {
	return lv.cursor, lv.cursorKey != ""
}

// SetCursor moves the cursor to path when it holds a row
func (lv *ListView) SetCursor(path model.IndexPath) {
	if key := lv.keyAt(path); key != "" {
		lv.cursor = path
		lv.cursorKey = key
	}
}

// MoveCursor moves the cursor by delta rows across section boundaries
func (lv *ListView) MoveCursor(delta int) {
	paths := lv.paths()
	if len(paths) == 0 {
		return
	}
	idx := 0
	for i, p := range paths {
		if p == lv.cursor {
			idx = i
			break
		}
	}
	idx = min(max(idx+delta, 0), len(paths)-1)
	lv.SetCursor(paths[idx])
}

// CursorFirst moves the cursor to the first row
func (lv *ListView) CursorFirst() {
	lv.MoveCursor(-len(lv.paths()))
}

// CursorLast moves the cursor to the last row
func (lv *ListView) CursorLast() {
	lv.MoveCursor(len(lv.paths()))
}

// resyncCursor follows the cursor row's key after an update. When the row is
// gone the cursor stays at the same position, clamped to the list.
func (lv *ListView) resyncCursor() {
	paths := lv.paths()
	if len(paths) == 0 {
		lv.cursor = model.IndexPath{}
		lv.cursorKey = ""
		return
	}

	flat := len(paths) - 1
	for i, p := range paths {
		if p == lv.cursor || p.Section > lv.cursor.Section {
			flat = i
			break
		}
	}
	for _, p := range paths {
		if lv.cursorKey != "" && lv.keyAt(p) == lv.cursorKey {
			lv.cursor = p
			return
		}
	}
	lv.SetCursor(paths[flat])
}

// ToggleSelected flips the selection of the cursor row and returns its path
// and new selection state
func (lv *ListView) ToggleSelected() (model.IndexPath, bool, bool) {
	path, ok := lv.Cursor()
	if !ok {
		return path, false, false
	}
	selected := !lv.selected[lv.cursorKey]
	if selected {
		lv.selected[lv.cursorKey] = true
	} else {
		delete(lv.selected, lv.cursorKey)
	}
	return path, selected, true
}

// ClearSelection deselects every row
func (lv *ListView) ClearSelection() {
	clear(lv.selected)
}

// SelectedPaths returns the paths of selected rows in display order
func (lv *ListView) SelectedPaths() []model.IndexPath {
	var paths []model.IndexPath
	for _, p := range lv.paths() {
		if lv.selected[lv.keyAt(p)] {
			paths = append(paths, p)
		}
	}
	return paths
}

// pruneSelection forgets selected keys that are no longer displayed
func (lv *ListView) pruneSelection() {
	if len(lv.selected) == 0 {
		return
	}
	present := make(map[string]bool, len(lv.selected))
	for _, p := range lv.paths() {
		if k := lv.keyAt(p); lv.selected[k] {
			present[k] = true
		}
	}
	lv.selected = present
}

// Animating reports whether any row is still highlighted
func (lv *ListView) Animating() bool {
	return len(lv.flashes) > 0
}

func (lv *ListView) flash(key string, color tcell.Color) {
	if key == "" || lv.flashFor <= 0 {
		return
	}
	lv.flashes[key] = flashStart{color: color, at: lv.now()}
}

// flashState returns the highlight for key, dropping settled ones
func (lv *ListView) flashState(key string) *Flash {
	f, ok := lv.flashes[key]
	if !ok {
		return nil
	}
	progress := float64(lv.now().Sub(f.at)) / float64(lv.flashFor)
	if progress >= 1 {
		delete(lv.flashes, key)
		return nil
	}
	return &Flash{Color: f.color, Progress: max(progress, 0)}
}
