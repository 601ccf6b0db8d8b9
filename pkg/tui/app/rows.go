package app

import (
	"tableflip.dev/curate/pkg/product"
	"tableflip.dev/curate/pkg/session"
	"tableflip.dev/curate/pkg/token"
)

type rowKind int

const (
	rowProduct rowKind = iota
	rowVariant
)

// row is one visible line of the product list or the picker list.
type row struct {
	kind    rowKind
	product product.ID
	variant product.ID
	// index is the position among siblings: products in the catalog, or
	// variants within their product.
	index int
}

func (r row) token() token.Token {
	if r.kind == rowVariant {
		return token.Variant(r.variant)
	}
	return token.Product(r.product)
}

// catalogRows flattens the catalog, listing variants under expanded products.
func catalogRows(snap session.Snapshot) []row {
	rows := make([]row, 0, len(snap.Products))
	for i, p := range snap.Products {
		rows = append(rows, row{kind: rowProduct, product: p.ID, index: i})
		if !snap.IsExpanded(p.ID) {
			continue
		}
		for j, v := range p.Variants {
			rows = append(rows, row{kind: rowVariant, product: p.ID, variant: v.ID, index: j})
		}
	}
	return rows
}

// candidateRows flattens picker candidates with every variant listed.
func candidateRows(candidates []product.Product) []row {
	rows := make([]row, 0, len(candidates))
	for i, p := range candidates {
		rows = append(rows, row{kind: rowProduct, product: p.ID, index: i})
		for j, v := range p.Variants {
			rows = append(rows, row{kind: rowVariant, product: p.ID, variant: v.ID, index: j})
		}
	}
	return rows
}

// sibling returns the token of the row delta positions away from r at the
// same level, or "" when there is none.
func sibling(snap session.Snapshot, r row, delta int) token.Token {
	switch r.kind {
	case rowProduct:
		idx := r.index + delta
		if idx < 0 || idx >= len(snap.Products) {
			return ""
		}
		return token.Product(snap.Products[idx].ID)
	case rowVariant:
		p, ok := snap.Find(r.product)
		if !ok {
			return ""
		}
		idx := r.index + delta
		if idx < 0 || idx >= len(p.Variants) {
			return ""
		}
		return token.Variant(p.Variants[idx].ID)
	}
	return ""
}

// locate finds the row of t, or -1.
func locate(rows []row, t token.Token) int {
	for i, r := range rows {
		if r.token() == t {
			return i
		}
	}
	return -1
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
