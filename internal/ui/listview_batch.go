package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-listbind/internal/diff"
	"github.com/pstuifzand/tui-listbind/internal/driver"
	"github.com/pstuifzand/tui-listbind/internal/model"
)

// pendingFlash is a highlight recorded during a batch. Row flashes address
// the section by its index before the batch; section flashes by the new index.
type pendingFlash struct {
	path    model.IndexPath
	color   tcell.Color
	section bool
}

type batchState struct {
	deleted  []int
	inserted []int
	moves    [][2]int
	rowDelta map[int]int
	flashes  []pendingFlash
	animated bool
	reloaded bool
}

// slot stands for a section while replaying section edits; old is -1 for an
// inserted section
type slot struct {
	old int
}

func (s slot) Key() string {
	return strconv.Itoa(s.old)
}

func (s slot) ContentEquals(other slot) bool {
	return s == other
}

// ReloadData drops all structural state and re-reads the data source
func (lv *ListView) ReloadData() {
	lv.stats.FullReloads++
	if lv.batch != nil {
		lv.batch.reloaded = true
	}
	lv.counts = lv.readCounts()
	clear(lv.flashes)
	lv.pruneSelection()
	lv.resyncCursor()
}

// InsertSections records inserted sections at their new indices
func (lv *ListView) InsertSections(sections []int, anim driver.Animation) {
	lv.record(anim, func(b *batchState, animate bool) {
		b.inserted = append(b.inserted, sections...)
		if animate {
			for _, s := range sections {
				b.flashes = append(b.flashes, pendingFlash{path: model.Path(s, -1), color: lv.screen.Theme.Colors.RowInserted, section: true})
			}
		}
	})
}

// DeleteSections records deleted sections at their old indices
func (lv *ListView) DeleteSections(sections []int, anim driver.Animation) {
	lv.record(anim, func(b *batchState, animate bool) {
		b.deleted = append(b.deleted, sections...)
	})
}

// MoveSection records a section move from an old to a new index
func (lv *ListView) MoveSection(from, to int) {
	lv.record(driver.AnimationNone, func(b *batchState, animate bool) {
		b.moves = append(b.moves, [2]int{from, to})
	})
}

// ReloadSections redraws the given sections; their row count is unchanged
func (lv *ListView) ReloadSections(sections []int, anim driver.Animation) {
	lv.record(anim, func(b *batchState, animate bool) {
		if animate {
			for _, s := range sections {
				b.flashes = append(b.flashes, pendingFlash{path: model.Path(s, -1), color: lv.screen.Theme.Colors.RowReloaded, section: true})
			}
		}
	})
}

// InsertRows records inserted rows. Paths carry the old section index and
// the new row index.
func (lv *ListView) InsertRows(paths []model.IndexPath, anim driver.Animation) {
	lv.record(anim, func(b *batchState, animate bool) {
		for _, p := range paths {
			b.rowDelta[p.Section]++
			if animate {
				b.flashes = append(b.flashes, pendingFlash{path: p, color: lv.screen.Theme.Colors.RowInserted})
			}
		}
	})
}

// DeleteRows records deleted rows at their old paths
func (lv *ListView) DeleteRows(paths []model.IndexPath, anim driver.Animation) {
	lv.record(anim, func(b *batchState, animate bool) {
		for _, p := range paths {
			b.rowDelta[p.Section]--
		}
	})
}

// MoveRow records a row move within a section; counts are unaffected
func (lv *ListView) MoveRow(from, to model.IndexPath) {
	lv.record(driver.AnimationNone, func(*batchState, bool) {})
}

// ReloadRows records rows to redraw at their new row index
func (lv *ListView) ReloadRows(paths []model.IndexPath, anim driver.Animation) {
	lv.record(anim, func(b *batchState, animate bool) {
		if !animate {
			return
		}
		for _, p := range paths {
			b.flashes = append(b.flashes, pendingFlash{path: p, color: lv.screen.Theme.Colors.RowReloaded})
		}
	})
}

// record adds an update to the running batch. Outside a batch the update is
// applied at once against the data source, with new section indices.
func (lv *ListView) record(anim driver.Animation, update func(b *batchState, animate bool)) {
	b := lv.batch
	if b == nil {
		b = &batchState{rowDelta: make(map[int]int)}
	}
	animate := anim != driver.AnimationNone
	b.animated = b.animated || animate
	update(b, animate)
	if lv.batch != nil {
		return
	}

	lv.counts = lv.readCounts()
	lv.applyFlashes(b, nil)
	lv.resyncCursor()
}

// PerformBatch runs updates as one batch. When the recorded updates do not
// account for the data source's new row counts the view logs the mismatch,
// reloads all data and reports the batch as not finished.
func (lv *ListView) PerformBatch(updates func(), completion func(finished bool)) {
	if lv.batch != nil {
		updates()
		completion(true)
		return
	}

	b := &batchState{rowDelta: make(map[int]int)}
	lv.batch = b
	func() {
		defer func() { lv.batch = nil }()
		updates()
	}()
	lv.stats.Batches++

	finished := true
	if !b.reloaded {
		sections, err := lv.verify(b)
		if err != nil {
			lv.stats.Inconsistent++
			lv.log.WithError(err).Warn("batch update does not match data source, reloading")
			lv.ReloadData()
			finished = false
		} else {
			lv.counts = lv.readCounts()
			lv.applyFlashes(b, sections)
			lv.pruneSelection()
			lv.resyncCursor()
		}
	}

	done := func() { completion(finished) }
	if !b.animated || !finished || lv.flashFor <= 0 || lv.post == nil {
		done()
		return
	}
	time.AfterFunc(lv.flashFor, func() { lv.post(done) })
}

// verify replays the batch's section edits over the row counts shown before
// the batch and compares the result with the data source. It returns the new
// index of every surviving old section.
func (lv *ListView) verify(b *batchState) (map[int]int, error) {
	old := lv.counts
	prev := make([]slot, len(old))
	for i := range prev {
		prev[i] = slot{old: i}
	}

	var edits []diff.Edit[slot]
	for _, from := range b.deleted {
		edits = append(edits, diff.Edit[slot]{Op: diff.OpDelete, From: from, To: -1})
	}
	for _, to := range b.inserted {
		edits = append(edits, diff.Edit[slot]{Op: diff.OpInsert, From: -1, To: to, Item: slot{old: -1}})
	}
	for _, m := range b.moves {
		if m[0] < 0 || m[0] >= len(prev) {
			return nil, fmt.Errorf("move from section %d: out of range [0,%d)", m[0], len(prev))
		}
		edits = append(edits, diff.Edit[slot]{Op: diff.OpMove, From: m[0], To: m[1], Item: prev[m[0]]})
	}

	next, err := diff.Apply(prev, edits)
	if err != nil {
		return nil, fmt.Errorf("section updates: %w", err)
	}
	if n := lv.source.NumberOfSections(); n != len(next) {
		return nil, fmt.Errorf("expected %d sections, data source has %d", len(next), n)
	}

	sections := make(map[int]int, len(next))
	for i, s := range next {
		if s.old < 0 {
			continue
		}
		sections[s.old] = i
		want := old[s.old] + b.rowDelta[s.old]
		if got := lv.source.NumberOfRows(i); got != want {
			return nil, fmt.Errorf("section %d (was %d): expected %d rows, data source has %d", i, s.old, want, got)
		}
	}
	return sections, nil
}

// applyFlashes starts the highlights recorded in b. sections maps old to new
// section indices; nil means the recorded indices are already new.
func (lv *ListView) applyFlashes(b *batchState, sections map[int]int) {
	for _, f := range b.flashes {
		if f.section {
			for r := 0; r < lv.source.NumberOfRows(f.path.Section); r++ {
				lv.flash(lv.keyAt(model.Path(f.path.Section, r)), f.color)
			}
			continue
		}
		s := f.path.Section
		if sections != nil {
			ns, ok := sections[s]
			if !ok {
				continue
			}
			s = ns
		}
		lv.flash(lv.keyAt(model.Path(s, f.path.Row)), f.color)
	}
}
