// Package drag interprets drag-start/drag-end pairs against the catalog.
//
// Products and variants share one drag context, so the controller refuses
// cross-kind drops and cross-product variant drops. Indices are always
// resolved from ids against the catalog passed to End, never cached from the
// start of the drag.
package drag

import (
	"errors"
	"fmt"

	"tableflip.dev/curate/pkg/catalog"
	"tableflip.dev/curate/pkg/product"
	"tableflip.dev/curate/pkg/token"
)

var (
	// ErrCrossKind rejects dropping a product onto a variant or vice versa.
	ErrCrossKind = errors.New("drag: cannot drop across kinds")
	// ErrCrossProduct rejects moving a variant into another product.
	ErrCrossProduct = errors.New("drag: cannot move a variant between products")
)

// Phase of the drag state machine.
type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// Controller is the Idle -> Dragging -> Idle state machine. The zero value is
// Idle.
type Controller struct {
	phase  Phase
	active token.Token
}

// Phase reports the current phase.
func (c Controller) Phase() Phase { return c.phase }

// Active is the token being dragged, empty when idle.
func (c Controller) Active() token.Token { return c.active }

// Start records the dragged token. Undecodable tokens leave the controller
// idle and return the decode error for logging.
func (c Controller) Start(t token.Token) (Controller, error) {
	if _, err := token.Decode(t); err != nil {
		return Controller{}, err
	}
	return Controller{phase: Dragging, active: t}, nil
}

// Cancel returns to idle without touching anything.
func (c Controller) Cancel() Controller { return Controller{} }

// Action describes which reorder, if any, a drop resolved to.
type Action int

const (
	NoChange Action = iota
	MovedProduct
	MovedVariant
)

// Result is the outcome of a drop.
type Result struct {
	Action    Action
	ProductID product.ID
	VariantID product.ID
	From      int
	To        int
	// Err explains why a drop was ignored. It is nil for plain no-ops such as
	// dropping onto nothing or onto itself.
	Err error
}

// End resolves a drop of active onto over. An empty active falls back to the
// token recorded by Start; an empty over means the drop had no target. The
// controller is always idle afterwards and cat is returned unchanged unless
// a reorder happened.
func (c Controller) End(cat catalog.Catalog, active, over token.Token) (Controller, catalog.Catalog, Result) {
	if active == "" {
		active = c.active
	}
	next, res := resolve(cat, active, over)
	return Controller{}, next, res
}

func resolve(cat catalog.Catalog, active, over token.Token) (catalog.Catalog, Result) {
	if active == "" || over == "" || active == over {
		return cat, Result{}
	}
	from, err := token.Decode(active)
	if err != nil {
		return cat, Result{Err: err}
	}
	to, err := token.Decode(over)
	if err != nil {
		return cat, Result{Err: err}
	}
	if from.Kind != to.Kind {
		return cat, Result{Err: fmt.Errorf("%w: %s onto %s", ErrCrossKind, from.Kind, to.Kind)}
	}

	switch from.Kind {
	case token.KindProduct:
		return moveProduct(cat, from.Raw, to.Raw)
	case token.KindVariant:
		return moveVariant(cat, from.Raw, to.Raw)
	}
	return cat, Result{Err: token.ErrMalformed}
}

func moveProduct(cat catalog.Catalog, activeID, overID product.ID) (catalog.Catalog, Result) {
	oldIndex := cat.IndexOf(activeID)
	newIndex := cat.IndexOf(overID)
	if oldIndex < 0 || newIndex < 0 {
		return cat, Result{Err: fmt.Errorf("%w: product %q onto %q", catalog.ErrNotFound, activeID, overID)}
	}
	next, err := cat.ReorderProduct(activeID, newIndex)
	if err != nil {
		return cat, Result{Err: err}
	}
	return next, Result{Action: MovedProduct, ProductID: activeID, From: oldIndex, To: newIndex}
}

func moveVariant(cat catalog.Catalog, activeID, overID product.ID) (catalog.Catalog, Result) {
	owner, ok := cat.OwnerOf(activeID)
	if !ok {
		return cat, Result{Err: fmt.Errorf("%w: variant %q", catalog.ErrNotFound, activeID)}
	}
	newIndex := owner.VariantIndex(overID)
	if newIndex < 0 {
		return cat, Result{ProductID: owner.ID, Err: fmt.Errorf("%w: %q is not in product %q", ErrCrossProduct, overID, owner.ID)}
	}
	oldIndex := owner.VariantIndex(activeID)
	next, err := cat.ReorderVariant(owner.ID, activeID, newIndex)
	if err != nil {
		return cat, Result{Err: err}
	}
	return next, Result{Action: MovedVariant, ProductID: owner.ID, VariantID: activeID, From: oldIndex, To: newIndex}
}
