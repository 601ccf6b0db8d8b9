// Package events defines the typed change messages a session emits after
// each committed mutation. Messages are plain values usable as Bubble Tea
// messages.
package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/curate/pkg/product"
)

// ComponentID identifies the emitter of an event.
type ComponentID string

// ChangeType enumerates supported change actions.
type ChangeType string

const (
	// ChangeCreate indicates a new resource was created.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate indicates an existing resource changed.
	ChangeUpdate ChangeType = "update"
	// ChangeDelete indicates a resource was removed.
	ChangeDelete ChangeType = "delete"
)

// ProductRef identifies a product in cross-component events.
type ProductRef struct {
	ID    product.ID
	Title string
}

// Label returns a human-friendly identifier for the product.
func (r ProductRef) Label() string {
	if r.Title != "" {
		return r.Title
	}
	return string(r.ID)
}

// RefFromProduct converts a product into an event reference.
func RefFromProduct(p product.Product) ProductRef {
	return ProductRef{ID: p.ID, Title: p.Title}
}

// ProductChangeMsg announces a product being added, replaced, rediscounted
// or removed.
type ProductChangeMsg struct {
	Component ComponentID
	Action    ChangeType
	Current   ProductRef
	// Replacements lists the rows spliced in when a product was replaced.
	Replacements []ProductRef
	Meta         map[string]string
}

// Describe renders the change for logs.
func (m ProductChangeMsg) Describe() string {
	return fmt.Sprintf(`action:%q product:%q replacements:%d`, m.Action, m.Current.Label(), len(m.Replacements))
}

// VariantChangeMsg announces a variant removal.
type VariantChangeMsg struct {
	Component ComponentID
	Action    ChangeType
	Product   ProductRef
	VariantID product.ID
}

// Describe renders the change for logs.
func (m VariantChangeMsg) Describe() string {
	return fmt.Sprintf(`action:%q product:%q variant:%q`, m.Action, m.Product.Label(), m.VariantID)
}

// ProductOrderMsg carries the full product order after a reorder.
type ProductOrderMsg struct {
	Component ComponentID
	Order     []product.ID
}

// Describe renders the order change for logs.
func (m ProductOrderMsg) Describe() string {
	return fmt.Sprintf(`component:%q order:%d`, m.Component, len(m.Order))
}

// VariantOrderMsg carries the variant order of one product after a reorder.
type VariantOrderMsg struct {
	Component ComponentID
	Product   ProductRef
	Order     []product.ID
}

// Describe renders the order change for logs.
func (m VariantOrderMsg) Describe() string {
	return fmt.Sprintf(`component:%q product:%q order:%d`, m.Component, m.Product.Label(), len(m.Order))
}

// SelectionChangeMsg reports the picker selection after a change.
type SelectionChangeMsg struct {
	Component ComponentID
	Products  []product.ID
}

// Describe renders the selection for logs.
func (m SelectionChangeMsg) Describe() string {
	return fmt.Sprintf(`component:%q selected:%d`, m.Component, len(m.Products))
}

// ExpansionChangeMsg reports a product showing or hiding its variants.
type ExpansionChangeMsg struct {
	Component ComponentID
	Product   product.ID
	Expanded  bool
}

// Describe renders the expansion for logs.
func (m ExpansionChangeMsg) Describe() string {
	return fmt.Sprintf(`component:%q product:%q expanded:%t`, m.Component, m.Product, m.Expanded)
}

// PickerMsg reports the picker opening or closing.
type PickerMsg struct {
	Component ComponentID
	Open      bool
	Target    product.ID
}

// Describe renders the picker transition for logs.
func (m PickerMsg) Describe() string {
	return fmt.Sprintf(`component:%q open:%t target:%q`, m.Component, m.Open, m.Target)
}

// Describer is implemented by every message in this package.
type Describer interface {
	Describe() string
}

// Wait blocks on ch and delivers the next event as a tea.Msg, so a Bubble Tea
// program can subscribe to a session.
func Wait(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
