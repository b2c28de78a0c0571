package diff

import "fmt"

// Apply replays an edit script against prev and returns the resulting sequence.
//
// The script is read with batch semantics: Delete and the source of a Move
// reference indices in prev, Insert, the target of a Move and Replace
// reference indices in the result.
func Apply[T Keyed[T]](prev []T, edits []Edit[T]) ([]T, error) {
	removed := make(map[int]bool)
	placed := make(map[int]T)
	for _, e := range edits {
		switch e.Op {
		case OpDelete, OpMove:
			if e.From < 0 || e.From >= len(prev) {
				return nil, fmt.Errorf("%s: old index %d out of range [0,%d)", e, e.From, len(prev))
			}
			if removed[e.From] {
				return nil, fmt.Errorf("%s: old index %d removed twice", e, e.From)
			}
			removed[e.From] = true
		}
		switch e.Op {
		case OpInsert, OpMove:
			if _, dup := placed[e.To]; dup {
				return nil, fmt.Errorf("%s: new index %d filled twice", e, e.To)
			}
			placed[e.To] = e.Item
		}
	}

	remaining := make([]T, 0, len(prev)-len(removed))
	for i, item := range prev {
		if !removed[i] {
			remaining = append(remaining, item)
		}
	}

	size := len(remaining) + len(placed)
	result := make([]T, size)
	next := 0
	for i := 0; i < size; i++ {
		if item, ok := placed[i]; ok {
			result[i] = item
			continue
		}
		if next >= len(remaining) {
			return nil, fmt.Errorf("new index %d: nothing left to place", i)
		}
		result[i] = remaining[next]
		next++
	}
	for to := range placed {
		if to < 0 || to >= size {
			return nil, fmt.Errorf("new index %d out of range [0,%d)", to, size)
		}
	}

	for _, e := range edits {
		if e.Op != OpReplace {
			continue
		}
		if e.To < 0 || e.To >= size {
			return nil, fmt.Errorf("%s: new index out of range [0,%d)", e, size)
		}
		if result[e.To].Key() != e.Item.Key() {
			return nil, fmt.Errorf("%s: index holds %q", e, result[e.To].Key())
		}
		result[e.To] = e.Item
	}
	return result, nil
}
