package diff

import "fmt"

// Keyed is anything the engine can diff: a stable key plus a content equality test
type Keyed[T any] interface {
	Key() string
	ContentEquals(other T) bool
}

// Op is the kind of an edit
type Op uint8

const (
	OpInsert  Op = iota + 1 // Insert item at new index
	OpDelete                // Delete item at old index
	OpMove                  // Move item from old index to new index
	OpReplace               // Same key, changed content
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpInsert:
		return "Insert"
	case OpDelete:
		return "Delete"
	case OpMove:
		return "Move"
	case OpReplace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// Edit is a single positional change between two snapshots.
//
// From always references the old sequence and To the new one; an index that
// does not apply to the op is -1. Item is the new-side value, Old the old-side
// value.
type Edit[T any] struct {
	Op   Op
	From int
	To   int
	Item T
	Old  T
}

// Key returns the key of the edited item
func (e Edit[T]) Key() string {
	if k, ok := any(e.Item).(interface{ Key() string }); ok && e.Op != OpDelete {
		return k.Key()
	}
	if k, ok := any(e.Old).(interface{ Key() string }); ok {
		return k.Key()
	}
	return ""
}

func (e Edit[T]) String() string {
	switch e.Op {
	case OpInsert:
		return fmt.Sprintf("Insert(%s @%d)", e.Key(), e.To)
	case OpDelete:
		return fmt.Sprintf("Delete(%s @%d)", e.Key(), e.From)
	case OpMove:
		return fmt.Sprintf("Move(%s %d->%d)", e.Key(), e.From, e.To)
	case OpReplace:
		return fmt.Sprintf("Replace(%s @%d)", e.Key(), e.To)
	default:
		return "Unknown"
	}
}

// DuplicateKeyError reports a key that appears twice in one sequence.
// It is a caller contract violation, never a recoverable diff case.
type DuplicateKeyError struct {
	Side   string // "old" or "new"
	Key    string
	First  int
	Second int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q in %s sequence at %d and %d", e.Key, e.Side, e.First, e.Second)
}

// Counts tallies an edit script by op
type Counts struct {
	Inserts  int
	Deletes  int
	Moves    int
	Replaces int
}

// Total returns the number of edits
func (c Counts) Total() int {
	return c.Inserts + c.Deletes + c.Moves + c.Replaces
}

func (c Counts) String() string {
	return fmt.Sprintf("%d inserted, %d deleted, %d moved, %d replaced", c.Inserts, c.Deletes, c.Moves, c.Replaces)
}

// Add returns the sum of two tallies
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Inserts:  c.Inserts + o.Inserts,
		Deletes:  c.Deletes + o.Deletes,
		Moves:    c.Moves + o.Moves,
		Replaces: c.Replaces + o.Replaces,
	}
}

// Count tallies edits by op
func Count[T any](edits []Edit[T]) Counts {
	var c Counts
	for _, e := range edits {
		switch e.Op {
		case OpInsert:
			c.Inserts++
		case OpDelete:
			c.Deletes++
		case OpMove:
			c.Moves++
		case OpReplace:
			c.Replaces++
		}
	}
	return c
}
