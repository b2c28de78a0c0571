// Package diff computes keyed edit scripts between two ordered sequences.
//
// Keys are indexed in hash maps, so inserts, deletes and replaces are found in
// linear time. Moves are the keys outside a longest run of common keys that
// keep their relative order (a longest increasing subsequence of old indices,
// taken in new order, found by patience sorting in O(n log n)). Every other
// common key stays put, so moving one item yields exactly one Move.
//
// When a key both moved and changed content, Diff emits a Move and a Replace
// at the new index.
package diff

import "sort"

// Diff compares two keyed sequences and returns the edits that turn prev into next.
//
// Edits are ordered Deletes (ascending old index), Inserts (ascending new
// index), Moves (ascending new index), Replaces (ascending new index).
func Diff[T Keyed[T]](prev, next []T) ([]Edit[T], error) {
	prevIndex, err := indexKeys(prev, "old")
	if err != nil {
		return nil, err
	}
	nextIndex, err := indexKeys(next, "new")
	if err != nil {
		return nil, err
	}

	var deletes, inserts, moves, replaces []Edit[T]
	for i, item := range prev {
		if _, ok := nextIndex[item.Key()]; !ok {
			deletes = append(deletes, Edit[T]{Op: OpDelete, From: i, To: -1, Old: item})
		}
	}

	// old index of each common key, in new order
	var common, commonAt []int
	for j, item := range next {
		i, ok := prevIndex[item.Key()]
		if !ok {
			inserts = append(inserts, Edit[T]{Op: OpInsert, From: -1, To: j, Item: item})
			continue
		}
		common = append(common, i)
		commonAt = append(commonAt, j)
	}

	stays := longestIncreasing(common)
	for c, i := range common {
		j := commonAt[c]
		old, item := prev[i], next[j]
		if !stays[c] {
			moves = append(moves, Edit[T]{Op: OpMove, From: i, To: j, Item: item, Old: old})
		}
		if !old.ContentEquals(item) {
			replaces = append(replaces, Edit[T]{Op: OpReplace, From: i, To: j, Item: item, Old: old})
		}
	}

	edits := make([]Edit[T], 0, len(deletes)+len(inserts)+len(moves)+len(replaces))
	edits = append(edits, deletes...)
	edits = append(edits, inserts...)
	edits = append(edits, moves...)
	edits = append(edits, replaces...)
	return edits, nil
}

// longestIncreasing marks the positions of one longest strictly increasing
// subsequence of seq. Among equally long runs it keeps the one ending in the
// smallest values, so in [A,B,C]->[B,A,C] A stays and B moves.
func longestIncreasing(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}
	// tails[k] is the position ending the best run of length k+1 seen so far
	tails := make([]int, 0, len(seq))
	link := make([]int, len(seq))
	for pos, v := range seq {
		k := sort.Search(len(tails), func(t int) bool { return seq[tails[t]] >= v })
		link[pos] = -1
		if k > 0 {
			link[pos] = tails[k-1]
		}
		if k == len(tails) {
			tails = append(tails, pos)
		} else {
			tails[k] = pos
		}
	}
	for pos := tails[len(tails)-1]; pos >= 0; pos = link[pos] {
		keep[pos] = true
	}
	return keep
}

// UniqueKeys reports the first repeated key in items as a *DuplicateKeyError.
// side names the sequence in the error, "old" or "new".
func UniqueKeys[T interface{ Key() string }](items []T, side string) error {
	_, err := indexKeys(items, side)
	return err
}

// indexKeys maps each key to its index, failing on the first duplicate
func indexKeys[T interface{ Key() string }](items []T, side string) (map[string]int, error) {
	index := make(map[string]int, len(items))
	for i, item := range items {
		key := item.Key()
		if first, exists := index[key]; exists {
			return nil, &DuplicateKeyError{Side: side, Key: key, First: first, Second: i}
		}
		index[key] = i
	}
	return index, nil
}

// Invert returns a script that undoes edits, sorted in Diff's emission order.
// It has as many moves as Diff with swapped arguments, though ties between
// equally short move sets may pick different keys.
func Invert[T any](edits []Edit[T]) []Edit[T] {
	inverted := make([]Edit[T], len(edits))
	for i, e := range edits {
		switch e.Op {
		case OpInsert:
			inverted[i] = Edit[T]{Op: OpDelete, From: e.To, To: -1, Old: e.Item}
		case OpDelete:
			inverted[i] = Edit[T]{Op: OpInsert, From: -1, To: e.From, Item: e.Old}
		default:
			inverted[i] = Edit[T]{Op: e.Op, From: e.To, To: e.From, Item: e.Old, Old: e.Item}
		}
	}
	sort.SliceStable(inverted, func(a, b int) bool {
		ea, eb := inverted[a], inverted[b]
		if ea.Op != eb.Op {
			return emitOrder(ea.Op) < emitOrder(eb.Op)
		}
		if ea.Op == OpDelete {
			return ea.From < eb.From
		}
		return ea.To < eb.To
	})
	return inverted
}

func emitOrder(op Op) int {
	switch op {
	case OpDelete:
		return 0
	case OpInsert:
		return 1
	case OpMove:
		return 2
	default:
		return 3
	}
}
