package session

import (
	"tableflip.dev/curate/pkg/drag"
	"tableflip.dev/curate/pkg/product"
	"tableflip.dev/curate/pkg/token"
)

// Snapshot is a read-only copy of the session. Mutating it never affects the
// session.
type Snapshot struct {
	Products []product.Product `json:"products"`
	Version  uint64            `json:"version"`

	// SelectedProducts lists selected product ids, sorted.
	SelectedProducts []product.ID `json:"selectedProducts"`
	// SelectedVariants maps each selected product to its selected variant
	// ids, in candidate order where the candidate is loaded.
	SelectedVariants map[product.ID][]product.ID `json:"selectedVariants"`

	Expanded map[product.ID]bool `json:"expanded"`
	Drag     DragView            `json:"drag"`
	Picker   PickerView          `json:"picker"`

	LastError string `json:"lastError,omitempty"`
}

// DragView is the drag controller state.
type DragView struct {
	Phase  drag.Phase  `json:"-"`
	State  string      `json:"state"`
	Active token.Token `json:"active,omitempty"`
}

// PickerView is the picker dialog state.
type PickerView struct {
	Open       bool              `json:"open"`
	Target     product.ID        `json:"target,omitempty"`
	Query      string            `json:"query,omitempty"`
	Candidates []product.Product `json:"candidates,omitempty"`
	HasMore    bool              `json:"hasMore"`
	Loading    bool              `json:"loading"`
	Err        string            `json:"error,omitempty"`
	Selected   int               `json:"selected"`
	Summary    string            `json:"summary"`
}

// Find returns the product with id.
func (s Snapshot) Find(id product.ID) (product.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return product.Product{}, false
}

// IsExpanded reports whether id shows its variants.
func (s Snapshot) IsExpanded(id product.ID) bool { return s.Expanded[id] }

// CanExpand reports whether id has more than one variant.
func (s Snapshot) CanExpand(id product.ID) bool {
	p, ok := s.Find(id)
	return ok && len(p.Variants) > 1
}

// IsSelected reports whether a picker candidate is selected.
func (s Snapshot) IsSelected(id product.ID) bool {
	_, ok := s.SelectedVariants[id]
	return ok
}

// IsVariantSelected reports whether one variant of a picker candidate is
// selected.
func (s Snapshot) IsVariantSelected(productID, variantID product.ID) bool {
	for _, v := range s.SelectedVariants[productID] {
		if v == variantID {
			return true
		}
	}
	return false
}

func (s *Session) snapshotLocked() Snapshot {
	sel := s.pick.Selection()
	candidates := s.pick.Candidates()

	selected := make(map[product.ID][]product.ID, sel.Len())
	for _, pid := range sel.ProductIDs() {
		selected[pid] = orderVariants(candidates, pid, sel.VariantIDs(pid))
	}

	view := PickerView{
		Open:       s.pick.IsOpen(),
		Target:     s.pick.Target(),
		Query:      s.pick.Query(),
		Candidates: candidates,
		HasMore:    s.pick.HasMore(),
		Loading:    s.pick.Loading(),
		Selected:   s.pick.SelectedCount(),
		Summary:    s.pick.Summary(),
	}
	if err := s.pick.Err(); err != nil {
		view.Err = err.Error()
	}

	snap := Snapshot{
		Products:         s.cat.Products(),
		Version:          s.cat.Version(),
		SelectedProducts: sel.ProductIDs(),
		SelectedVariants: selected,
		Expanded:         s.exp.Map(),
		Drag: DragView{
			Phase:  s.drag.Phase(),
			State:  s.drag.Phase().String(),
			Active: s.drag.Active(),
		},
		Picker: view,
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

// orderVariants sorts ids by their position in the candidate, leaving ids the
// candidate no longer lists at the end in their given order.
func orderVariants(candidates []product.Product, productID product.ID, ids []product.ID) []product.ID {
	var owner *product.Product
	for i := range candidates {
		if candidates[i].ID == productID {
			owner = &candidates[i]
			break
		}
	}
	if owner == nil {
		return ids
	}
	want := make(map[product.ID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]product.ID, 0, len(ids))
	for _, v := range owner.Variants {
		if want[v.ID] {
			out = append(out, v.ID)
			delete(want, v.ID)
		}
	}
	for _, id := range ids {
		if want[id] {
			out = append(out, id)
		}
	}
	return out
}
