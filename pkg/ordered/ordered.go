// Package ordered implements pure operations on keyed, ordered sequences.
// Every function returns a fresh slice and never writes to its input, so a
// caller holding an older sequence keeps seeing it unchanged.
package ordered

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the referenced key is not in the sequence.
var ErrNotFound = errors.New("ordered: not found")

// Keyed is implemented by elements that carry a comparable identity.
type Keyed[K comparable] interface {
	Key() K
}

// IndexOf returns the position of key in seq, or -1.
func IndexOf[E Keyed[K], K comparable](seq []E, key K) int {
	for i, e := range seq {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

// Contains reports whether key is present.
func Contains[E Keyed[K], K comparable](seq []E, key K) bool {
	return IndexOf(seq, key) >= 0
}

// Keys lists keys in sequence order.
func Keys[E Keyed[K], K comparable](seq []E) []K {
	out := make([]K, len(seq))
	for i, e := range seq {
		out[i] = e.Key()
	}
	return out
}

// MoveByID removes the element with key and reinserts it at target, where
// target indexes the sequence after the removal (splice semantics). Targets
// outside [0, len-1] are clamped.
func MoveByID[E Keyed[K], K comparable](seq []E, key K, target int) ([]E, error) {
	from := IndexOf(seq, key)
	if from < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, key)
	}
	return Move(seq, from, target), nil
}

// Move relocates the element at from to target using the same post-removal
// index semantics as MoveByID. from must be a valid index.
func Move[E any](seq []E, from, target int) []E {
	out := make([]E, 0, len(seq))
	out = append(out, seq[:from]...)
	out = append(out, seq[from+1:]...)
	target = clamp(target, 0, len(out))
	moved := seq[from]
	out = append(out, moved)
	copy(out[target+1:], out[target:len(out)-1])
	out[target] = moved
	return out
}

// InsertAt splices items in at index, clamped to [0, len].
func InsertAt[E any](seq []E, index int, items ...E) []E {
	index = clamp(index, 0, len(seq))
	out := make([]E, 0, len(seq)+len(items))
	out = append(out, seq[:index]...)
	out = append(out, items...)
	out = append(out, seq[index:]...)
	return out
}

// InsertReplacing removes the element with key and splices items, in the
// given order, into its place. Zero items is a plain removal.
func InsertReplacing[E Keyed[K], K comparable](seq []E, key K, items ...E) ([]E, error) {
	idx := IndexOf(seq, key)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, key)
	}
	out := make([]E, 0, len(seq)-1+len(items))
	out = append(out, seq[:idx]...)
	out = append(out, items...)
	out = append(out, seq[idx+1:]...)
	return out, nil
}

// RemoveByID drops the element with key.
func RemoveByID[E Keyed[K], K comparable](seq []E, key K) ([]E, error) {
	return InsertReplacing(seq, key)
}

// UpsertByID replaces the element sharing item's key in place, or appends it.
func UpsertByID[E Keyed[K], K comparable](seq []E, item E) []E {
	out := append(make([]E, 0, len(seq)+1), seq...)
	if idx := IndexOf(out, item.Key()); idx >= 0 {
		out[idx] = item
		return out
	}
	return append(out, item)
}

// Update applies fn to the element with key and returns the rewritten
// sequence.
func Update[E Keyed[K], K comparable](seq []E, key K, fn func(E) E) ([]E, error) {
	idx := IndexOf(seq, key)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, key)
	}
	out := append(make([]E, 0, len(seq)), seq...)
	out[idx] = fn(out[idx])
	return out, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
