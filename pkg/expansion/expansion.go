// Package expansion tracks which products currently show their variants.
package expansion

import "tableflip.dev/curate/pkg/product"

// State is an immutable product id -> expanded mapping. Absent means
// collapsed.
type State struct {
	expanded map[product.ID]bool
}

// New returns a state with everything collapsed.
func New() State { return State{} }

// IsExpanded reports whether id shows its variants.
func (s State) IsExpanded(id product.ID) bool {
	return s.expanded[id]
}

// Has reports whether an entry exists for id, expanded or not.
func (s State) Has(id product.ID) bool {
	_, ok := s.expanded[id]
	return ok
}

// Toggle flips id, creating the entry on first touch.
func (s State) Toggle(id product.ID) State {
	return s.Set(id, !s.expanded[id])
}

// Set stores an explicit value for id.
func (s State) Set(id product.ID, expanded bool) State {
	next := s.clone()
	next.expanded[id] = expanded
	return next
}

// Drop deletes the entry for a removed product.
func (s State) Drop(id product.ID) State {
	if !s.Has(id) {
		return s
	}
	next := s.clone()
	delete(next.expanded, id)
	return next
}

// Map returns a copy of the underlying entries.
func (s State) Map() map[product.ID]bool {
	out := make(map[product.ID]bool, len(s.expanded))
	for k, v := range s.expanded {
		out[k] = v
	}
	return out
}

func (s State) clone() State {
	return State{expanded: s.Map()}
}
