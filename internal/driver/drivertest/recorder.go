// Package drivertest provides recording surfaces for testing code that drives
// a driver.Surface.
package drivertest

import (
	"fmt"
	"strings"

	"github.com/pstuifzand/tui-listbind/internal/driver"
	"github.com/pstuifzand/tui-listbind/internal/model"
)

// Recorder is a non-batching surface that records every call as a line
type Recorder struct {
	Calls []string
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

// Reset forgets all recorded calls
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Index returns the position of the first call starting with prefix, or -1
func (r *Recorder) Index(prefix string) int {
	for i, c := range r.Calls {
		if strings.HasPrefix(c, prefix) {
			return i
		}
	}
	return -1
}

func (r *Recorder) ReloadData() {
	r.record("reloadData")
}

func (r *Recorder) InsertSections(sections []int, anim driver.Animation) {
	r.record("insertSections %v %s", sections, anim)
}

func (r *Recorder) DeleteSections(sections []int, anim driver.Animation) {
	r.record("deleteSections %v %s", sections, anim)
}

func (r *Recorder) MoveSection(from, to int) {
	r.record("moveSection %d->%d", from, to)
}

func (r *Recorder) ReloadSections(sections []int, anim driver.Animation) {
	r.record("reloadSections %v %s", sections, anim)
}

func (r *Recorder) InsertRows(paths []model.IndexPath, anim driver.Animation) {
	r.record("insertRows %v %s", paths, anim)
}

func (r *Recorder) DeleteRows(paths []model.IndexPath, anim driver.Animation) {
	r.record("deleteRows %v %s", paths, anim)
}

func (r *Recorder) MoveRow(from, to model.IndexPath) {
	r.record("moveRow %s->%s", from, to)
}

func (r *Recorder) ReloadRows(paths []model.IndexPath, anim driver.Animation) {
	r.record("reloadRows %v %s", paths, anim)
}

// BatchRecorder is a Recorder that also implements driver.Batcher.
// With Defer set, completions are held until Complete is called.
type BatchRecorder struct {
	*Recorder
	Defer   bool
	pending []func(bool)
}

// NewBatchRecorder creates a batching recorder
func NewBatchRecorder(deferCompletion bool) *BatchRecorder {
	return &BatchRecorder{Recorder: NewRecorder(), Defer: deferCompletion}
}

// PerformBatch implements driver.Batcher
func (b *BatchRecorder) PerformBatch(updates func(), completion func(finished bool)) {
	b.record("beginBatch")
	updates()
	b.record("endBatch")
	if b.Defer {
		b.pending = append(b.pending, completion)
		return
	}
	completion(true)
}

// Pending returns the number of batches waiting for Complete
func (b *BatchRecorder) Pending() int {
	return len(b.pending)
}

// Complete fires the oldest held completion
func (b *BatchRecorder) Complete(finished bool) {
	if len(b.pending) == 0 {
		return
	}
	completion := b.pending[0]
	b.pending = b.pending[1:]
	completion(finished)
}
