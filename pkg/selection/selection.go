// Package selection keeps product and variant selection consistent.
//
// A product is selected iff it has a non-empty set of selected variants.
// Variant sets are keyed by (product id, variant id), never by the variant id
// alone. State values are immutable: every operation returns a new State and
// the invariant holds on every value ever returned.
package selection

import (
	"sort"

	"tableflip.dev/curate/pkg/product"
)

type idSet map[product.ID]struct{}

// State is one immutable selection snapshot.
type State struct {
	products idSet
	variants map[product.ID]idSet
}

// New returns an empty selection.
func New() State {
	return State{}
}

// IsProductSelected reports whether id is selected.
func (s State) IsProductSelected(id product.ID) bool {
	_, ok := s.products[id]
	return ok
}

// IsVariantSelected reports whether variantID is selected under productID.
func (s State) IsVariantSelected(productID, variantID product.ID) bool {
	_, ok := s.variants[productID][variantID]
	return ok
}

// Len is the number of selected products.
func (s State) Len() int { return len(s.products) }

// Empty reports whether nothing is selected.
func (s State) Empty() bool { return len(s.products) == 0 }

// ProductIDs returns the selected product ids, sorted.
func (s State) ProductIDs() []product.ID {
	return sortedIDs(s.products)
}

// VariantIDs returns the selected variant ids of productID, sorted.
func (s State) VariantIDs(productID product.ID) []product.ID {
	return sortedIDs(s.variants[productID])
}

// Variants returns a copy of the full product -> variant ids mapping.
func (s State) Variants() map[product.ID][]product.ID {
	out := make(map[product.ID][]product.ID, len(s.variants))
	for pid, set := range s.variants {
		out[pid] = sortedIDs(set)
	}
	return out
}

// ToggleProduct deselects p entirely when it is selected; otherwise it
// selects p with every one of its current variants, even ones deselected
// individually before. A product without variants cannot be selected.
func (s State) ToggleProduct(p product.Product) State {
	if s.IsProductSelected(p.ID) {
		return s.Drop(p.ID)
	}
	if len(p.Variants) == 0 {
		return s
	}
	set := make(idSet, len(p.Variants))
	for _, v := range p.Variants {
		set[v.ID] = struct{}{}
	}
	return s.with(p.ID, set)
}

// ToggleVariant flips one variant. An emptied set demotes the product and
// drops its entry; a first variant promotes it.
func (s State) ToggleVariant(productID, variantID product.ID) State {
	set := make(idSet, len(s.variants[productID])+1)
	for id := range s.variants[productID] {
		set[id] = struct{}{}
	}
	if _, ok := set[variantID]; ok {
		delete(set, variantID)
	} else {
		set[variantID] = struct{}{}
	}
	if len(set) == 0 {
		return s.Drop(productID)
	}
	return s.with(productID, set)
}

// DropVariant deselects variantID if selected, demoting its product as
// needed. It is used when the variant disappears from the catalog.
func (s State) DropVariant(productID, variantID product.ID) State {
	if !s.IsVariantSelected(productID, variantID) {
		return s
	}
	return s.ToggleVariant(productID, variantID)
}

// Drop removes every trace of productID.
func (s State) Drop(productID product.ID) State {
	if _, ok := s.variants[productID]; !ok && !s.IsProductSelected(productID) {
		return s
	}
	next := s.clone()
	delete(next.products, productID)
	delete(next.variants, productID)
	return next
}

// Reset returns an empty selection.
func (s State) Reset() State {
	return New()
}

// Materialize projects the selection onto candidates: selected products, each
// trimmed to its selected variants, in candidate order (not selection order).
func (s State) Materialize(candidates []product.Product) []product.Product {
	out := make([]product.Product, 0, len(s.products))
	for _, c := range candidates {
		if !s.IsProductSelected(c.ID) {
			continue
		}
		picked := c.Clone()
		picked.Variants = picked.Variants[:0:0]
		for _, v := range c.Variants {
			if s.IsVariantSelected(c.ID, v.ID) {
				picked.Variants = append(picked.Variants, v)
			}
		}
		if len(picked.Variants) == 0 {
			continue
		}
		out = append(out, picked)
	}
	return out
}

func (s State) with(productID product.ID, set idSet) State {
	next := s.clone()
	next.products[productID] = struct{}{}
	next.variants[productID] = set
	return next
}

// clone copies the outer maps; inner sets are shared because they are never
// written after construction.
func (s State) clone() State {
	next := State{
		products: make(idSet, len(s.products)+1),
		variants: make(map[product.ID]idSet, len(s.variants)+1),
	}
	for id := range s.products {
		next.products[id] = struct{}{}
	}
	for id, set := range s.variants {
		next.variants[id] = set
	}
	return next
}

func sortedIDs(set idSet) []product.ID {
	if len(set) == 0 {
		return nil
	}
	out := make([]product.ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
