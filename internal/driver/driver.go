// Package driver applies reconciliation plans to a rendering surface.
//
// Calls are issued in a fixed dependency order inside one batch: section
// deletes, section inserts, section moves, then for every section with a
// nested row plan its row inserts, deletes, moves and reloads. Row paths use
// the section index from before the update. Section reloads are deferred
// until the batch has completed. The driver keeps no state between calls.
package driver

import (
	"sync"

	"github.com/pstuifzand/tui-listbind/internal/diff"
	"github.com/pstuifzand/tui-listbind/internal/model"
	"github.com/pstuifzand/tui-listbind/internal/plan"
)

// Surface is the set of structural primitives a rendering surface exposes
type Surface interface {
	ReloadData()
	InsertSections(sections []int, anim Animation)
	DeleteSections(sections []int, anim Animation)
	MoveSection(from, to int)
	ReloadSections(sections []int, anim Animation)
	InsertRows(paths []model.IndexPath, anim Animation)
	DeleteRows(paths []model.IndexPath, anim Animation)
	MoveRow(from, to model.IndexPath)
	ReloadRows(paths []model.IndexPath, anim Animation)
}

// Batcher is implemented by surfaces that can apply a group of updates
// atomically. completion must be invoked once the batch has been committed.
type Batcher interface {
	PerformBatch(updates func(), completion func(finished bool))
}

// Apply drives the surface through p and calls done exactly once when every
// call, including deferred section reloads, has been issued. done may be nil.
//
// When the batch does not finish, the deferred section reloads are skipped and
// done receives false; the caller is expected to resynchronise the surface.
func Apply(p *plan.Plan, s Surface, anim Animations, done func(finished bool)) {
	finish := once(done)
	if p.Empty() {
		finish(true)
		return
	}

	reloads := p.Reloads()
	updates := func() {
		applySections(p.Sections, s, anim)
		for _, change := range p.Changes {
			if change.HasRows() {
				applyRows(change.Section, change.Rows, s, anim)
			}
		}
	}
	completion := func(finished bool) {
		if finished && len(reloads) > 0 {
			s.ReloadSections(reloads, anim.For(KindReloadSection))
		}
		finish(finished)
	}
	batch(s, updates, completion)
}

// batch runs updates inside the surface's batch when it has one, and
// sequentially otherwise. completion runs exactly once on every exit path.
func batch(s Surface, updates func(), completion func(finished bool)) {
	complete := once(completion)
	defer func() {
		if r := recover(); r != nil {
			complete(false)
			panic(r)
		}
	}()

	if b, ok := s.(Batcher); ok {
		b.PerformBatch(updates, complete)
		return
	}
	updates()
	complete(true)
}

func applySections(edits []diff.Edit[*model.Section], s Surface, anim Animations) {
	var deletes, inserts []int
	var moves [][2]int
	for _, e := range edits {
		switch e.Op {
		case diff.OpDelete:
			deletes = append(deletes, e.From)
		case diff.OpInsert:
			inserts = append(inserts, e.To)
		case diff.OpMove:
			moves = append(moves, [2]int{e.From, e.To})
		}
	}

	if len(deletes) > 0 {
		s.DeleteSections(deletes, anim.For(KindDeleteSection))
	}
	if len(inserts) > 0 {
		s.InsertSections(inserts, anim.For(KindInsertSection))
	}
	for _, m := range moves {
		s.MoveSection(m[0], m[1])
	}
}

func applyRows(section int, edits []diff.Edit[model.Row], s Surface, anim Animations) {
	var inserts, deletes, reloads []model.IndexPath
	var moves [][2]model.IndexPath
	inserted := make(map[int]bool)
	for _, e := range edits {
		switch e.Op {
		case diff.OpInsert:
			inserts = append(inserts, model.Path(section, e.To))
			inserted[e.To] = true
		case diff.OpDelete:
			deletes = append(deletes, model.Path(section, e.From))
		case diff.OpMove:
			moves = append(moves, [2]model.IndexPath{model.Path(section, e.From), model.Path(section, e.To)})
		}
	}
	for _, e := range edits {
		// a row already covered by an insert is not reloaded as well
		if e.Op == diff.OpReplace && !inserted[e.To] {
			reloads = append(reloads, model.Path(section, e.To))
		}
	}

	if len(inserts) > 0 {
		s.InsertRows(inserts, anim.For(KindInsertRow))
	}
	if len(deletes) > 0 {
		s.DeleteRows(deletes, anim.For(KindDeleteRow))
	}
	for _, m := range moves {
		s.MoveRow(m[0], m[1])
	}
	if len(reloads) > 0 {
		s.ReloadRows(reloads, anim.For(KindReloadRow))
	}
}

func once(fn func(finished bool)) func(finished bool) {
	var o sync.Once
	return func(finished bool) {
		o.Do(func() {
			if fn != nil {
				fn(finished)
			}
		})
	}
}
