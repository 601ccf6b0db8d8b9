// Package session ties the catalog, expansion, drag and picker stores together
// behind one mutex and emits typed change events after each committed
// mutation. State lives locally; consumers read consistent snapshots and may
// subscribe to the event channel.
//
// Cross-store effects are always sequenced the same way: the catalog commits
// first, then expansion and picker selection drop entries the commit
// orphaned, then events are emitted.
package session

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tableflip.dev/curate/pkg/catalog"
	"tableflip.dev/curate/pkg/drag"
	"tableflip.dev/curate/pkg/events"
	"tableflip.dev/curate/pkg/expansion"
	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/picker"
	"tableflip.dev/curate/pkg/product"
	"tableflip.dev/curate/pkg/token"
)

// DefaultComponent is the event source used when none is configured.
const DefaultComponent events.ComponentID = "session"

const eventBuffer = 64

// Session is the in-memory curation model consumed by a presentation layer.
type Session struct {
	component events.ComponentID
	newID     func() product.ID
	fetcher   fetch.Fetcher
	logger    zerolog.Logger

	mu sync.RWMutex

	cat  catalog.Catalog
	exp  expansion.State
	drag drag.Controller
	pick picker.Model

	lastErr error

	eventCh chan tea.Msg
}

// Option configures a Session.
type Option func(*Session)

// WithProducts seeds the catalog.
func WithProducts(products ...product.Product) Option {
	return func(s *Session) { s.cat = catalog.New(products...) }
}

// WithIDGenerator overrides how placeholder ids are minted.
func WithIDGenerator(fn func() product.ID) Option {
	return func(s *Session) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithComponent sets the ComponentID stamped on emitted events.
func WithComponent(id events.ComponentID) Option {
	return func(s *Session) {
		if id != "" {
			s.component = id
		}
	}
}

// WithFetcher sets the catalog source used by NextPage.
func WithFetcher(f fetch.Fetcher) Option {
	return func(s *Session) { s.fetcher = f }
}

// WithPageSize sets the picker page size.
func WithPageSize(n int) Option {
	return func(s *Session) { s.pick = picker.New(n) }
}

// WithLogger replaces the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates a session with an empty catalog unless WithProducts is given.
func New(opts ...Option) *Session {
	s := &Session{
		component: DefaultComponent,
		newID:     func() product.ID { return product.ID(uuid.NewString()) },
		logger:    log.Logger,
		cat:       catalog.New(),
		exp:       expansion.New(),
		pick:      picker.New(fetch.DefaultPageSize),
		eventCh:   make(chan tea.Msg, eventBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events exposes the session event channel for Bubble Tea subscriptions.
func (s *Session) Events() <-chan tea.Msg {
	return s.eventCh
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Picker returns the current picker model.
func (s *Session) Picker() picker.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pick
}

// CanExpand reports whether the product has enough variants to be worth
// expanding.
func (s *Session) CanExpand(id product.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.cat.Find(id)
	return ok && len(p.Variants) > 1
}

// AddProduct appends a placeholder row with a fresh id.
func (s *Session) AddProduct() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	id := s.newID()
	s.cat = s.cat.AddPlaceholder(id)
	s.emit(events.ProductChangeMsg{
		Component: s.component,
		Action:    events.ChangeCreate,
		Current:   events.ProductRef{ID: id, Title: product.PlaceholderTitle},
	})
	s.emitOrderLocked()
	return s.snapshotLocked()
}

// RemoveProduct deletes a row and everything that referenced it.
func (s *Session) RemoveProduct(id product.ID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	prev, _ := s.cat.Find(id)
	next, err := s.cat.RemoveProduct(id)
	if err != nil {
		return s.recoverLocked("remove product", err)
	}
	s.cat = next
	s.dropOrphansLocked(id)
	s.emit(events.ProductChangeMsg{
		Component: s.component,
		Action:    events.ChangeDelete,
		Current:   events.RefFromProduct(prev),
	})
	s.emitOrderLocked()
	return s.snapshotLocked()
}

// ReplaceProduct splices items in place of the row id. Zero items removes the
// row.
func (s *Session) ReplaceProduct(id product.ID, items []product.Product) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	return s.replaceLocked(id, items)
}

func (s *Session) replaceLocked(id product.ID, items []product.Product) Snapshot {
	prev, _ := s.cat.Find(id)
	next, err := s.cat.ReplaceProduct(id, items)
	if err != nil {
		return s.recoverLocked("replace product", err)
	}
	s.cat = next
	kept := false
	for _, p := range items {
		if p.ID == id {
			kept = true
			break
		}
	}
	if !kept {
		s.dropOrphansLocked(id)
	}

	action := events.ChangeUpdate
	if len(items) == 0 {
		action = events.ChangeDelete
	}
	refs := make([]events.ProductRef, 0, len(items))
	for _, p := range items {
		refs = append(refs, events.RefFromProduct(p))
	}
	s.emit(events.ProductChangeMsg{
		Component:    s.component,
		Action:       action,
		Current:      events.RefFromProduct(prev),
		Replacements: refs,
	})
	s.emitOrderLocked()
	return s.snapshotLocked()
}

// RemoveVariant deletes one variant from a product.
func (s *Session) RemoveVariant(productID, variantID product.ID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	next, err := s.cat.RemoveVariant(productID, variantID)
	if err != nil {
		return s.recoverLocked("remove variant", err)
	}
	s.cat = next
	s.pick = s.pick.DropVariant(productID, variantID)
	p, _ := s.cat.Find(productID)
	s.emit(events.VariantChangeMsg{
		Component: s.component,
		Action:    events.ChangeDelete,
		Product:   events.RefFromProduct(p),
		VariantID: variantID,
	})
	return s.snapshotLocked()
}

// SetDiscount replaces a product's discount. Out-of-range values are clamped.
func (s *Session) SetDiscount(productID product.ID, d product.Discount) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	next, err := s.cat.SetDiscount(productID, d)
	if err != nil {
		return s.recoverLocked("set discount", err)
	}
	s.cat = next
	p, _ := s.cat.Find(productID)
	meta := map[string]string{"discount": d.Normalize().String()}
	s.emit(events.ProductChangeMsg{
		Component: s.component,
		Action:    events.ChangeUpdate,
		Current:   events.RefFromProduct(p),
		Meta:      meta,
	})
	return s.snapshotLocked()
}

// ReorderProduct moves a product to toIndex, measured after its removal.
func (s *Session) ReorderProduct(fromID product.ID, toIndex int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	next, err := s.cat.ReorderProduct(fromID, toIndex)
	if err != nil {
		return s.recoverLocked("reorder product", err)
	}
	s.cat = next
	s.emitOrderLocked()
	return s.snapshotLocked()
}

// ReorderVariant moves a variant within its product.
func (s *Session) ReorderVariant(productID, fromID product.ID, toIndex int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	next, err := s.cat.ReorderVariant(productID, fromID, toIndex)
	if err != nil {
		return s.recoverLocked("reorder variant", err)
	}
	s.cat = next
	s.emitVariantOrderLocked(productID)
	return s.snapshotLocked()
}

// ToggleExpanded shows or hides a product's variants.
func (s *Session) ToggleExpanded(id product.ID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	if s.cat.IndexOf(id) < 0 {
		return s.recoverLocked("toggle expanded", catalog.ErrNotFound)
	}
	s.exp = s.exp.Toggle(id)
	s.emit(events.ExpansionChangeMsg{
		Component: s.component,
		Product:   id,
		Expanded:  s.exp.IsExpanded(id),
	})
	return s.snapshotLocked()
}

// DragStart records the token being dragged. A malformed token leaves the
// controller idle.
func (s *Session) DragStart(t token.Token) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	next, err := s.drag.Start(t)
	s.drag = next
	if err != nil {
		return s.recoverLocked("drag start", err)
	}
	return s.snapshotLocked()
}

// DragEnd drops active onto over. An empty active uses the token recorded by
// DragStart.
func (s *Session) DragEnd(active, over token.Token) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	ctrl, next, res := s.drag.End(s.cat, active, over)
	s.drag = ctrl
	if res.Err != nil {
		return s.recoverLocked("drag end", res.Err)
	}
	s.cat = next
	switch res.Action {
	case drag.MovedProduct:
		s.emitOrderLocked()
	case drag.MovedVariant:
		s.emitVariantOrderLocked(res.ProductID)
	}
	return s.snapshotLocked()
}

// DragCancel abandons a drag.
func (s *Session) DragCancel() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	s.drag = s.drag.Cancel()
	return s.snapshotLocked()
}

// OpenPicker opens the picker for the row target with an empty selection.
func (s *Session) OpenPicker(target product.ID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	if s.cat.IndexOf(target) < 0 {
		return s.recoverLocked("open picker", catalog.ErrNotFound)
	}
	s.pick = s.pick.Open(target)
	s.emit(events.PickerMsg{Component: s.component, Open: true, Target: target})
	return s.snapshotLocked()
}

// ClosePicker dismisses the picker without touching the catalog.
func (s *Session) ClosePicker() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	if !s.pick.IsOpen() {
		return s.snapshotLocked()
	}
	target := s.pick.Target()
	s.pick = s.pick.Close()
	s.emit(events.PickerMsg{Component: s.component, Open: false, Target: target})
	return s.snapshotLocked()
}

// Search changes the picker query and restarts pagination.
func (s *Session) Search(query string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	s.pick = s.pick.Search(query)
	return s.snapshotLocked()
}

// BeginFetch marks the next picker page as in flight and returns the request
// to issue. ok is false when nothing should be fetched.
func (s *Session) BeginFetch() (fetch.Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	next, req, err := s.pick.BeginFetch()
	if err != nil {
		return fetch.Request{}, false
	}
	s.pick = next
	return req, true
}

// ApplyPage folds a fetched page into the picker. Stale pages are ignored.
func (s *Session) ApplyPage(req fetch.Request, items []product.Product, fetchErr error) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	next, err := s.pick.ApplyPage(req, items, fetchErr)
	s.pick = next
	if err != nil {
		if errors.Is(err, picker.ErrStalePage) {
			s.logger.Debug().Str("search", req.Search).Int("page", req.Page).Msg("[SESSION] dropped stale page")
			return s.snapshotLocked()
		}
		return s.recoverLocked("fetch page", err)
	}
	return s.snapshotLocked()
}

// NextPage fetches the next picker page with the configured fetcher. The
// lock is not held while the fetch runs.
func (s *Session) NextPage(ctx context.Context) Snapshot {
	var req fetch.Request
	ok := false
	if s.fetcher != nil {
		req, ok = s.BeginFetch()
	}
	if !ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.lastErr = nil
		return s.snapshotLocked()
	}
	items, err := s.fetcher.Fetch(ctx, req)
	return s.ApplyPage(req, items, err)
}

// ToggleProduct flips a picker candidate with all its variants.
func (s *Session) ToggleProduct(id product.ID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	s.pick = s.pick.ToggleProduct(id)
	s.emitSelectionLocked()
	return s.snapshotLocked()
}

// ToggleVariant flips one variant of a picker candidate.
func (s *Session) ToggleVariant(productID, variantID product.ID) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	s.pick = s.pick.ToggleVariant(productID, variantID)
	s.emitSelectionLocked()
	return s.snapshotLocked()
}

// ConfirmPicker closes the picker and splices the selection in place of the
// row it was opened for. An empty selection removes the row.
func (s *Session) ConfirmPicker() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	next, target, picked, err := s.pick.Confirm()
	if err != nil {
		return s.recoverLocked("confirm picker", err)
	}
	s.pick = next
	s.emit(events.PickerMsg{Component: s.component, Open: false, Target: target})
	return s.replaceLocked(target, picked)
}

func (s *Session) dropOrphansLocked(id product.ID) {
	s.exp = s.exp.Drop(id)
	s.pick = s.pick.DropProduct(id)
	if s.pick.IsOpen() && s.pick.Target() == id {
		s.pick = s.pick.Close()
		s.emit(events.PickerMsg{Component: s.component, Open: false, Target: id})
	}
	if ref, err := token.Decode(s.drag.Active()); err == nil && ref.Kind == token.KindProduct && ref.Raw == id {
		s.drag = s.drag.Cancel()
	}
}

// recoverLocked turns a stale-id or malformed-token failure into a no-op and
// remembers it for the next snapshot.
func (s *Session) recoverLocked(op string, err error) Snapshot {
	s.lastErr = err
	ev := s.logger.Debug()
	if errors.Is(err, fetch.ErrFetchFailed) {
		ev = s.logger.Warn()
	}
	ev.Err(err).Str("op", op).Msg("[SESSION] ignored")
	return s.snapshotLocked()
}

func (s *Session) emitOrderLocked() {
	s.emit(events.ProductOrderMsg{
		Component: s.component,
		Order:     s.cat.IDs(),
	})
}

func (s *Session) emitVariantOrderLocked(productID product.ID) {
	p, ok := s.cat.Find(productID)
	if !ok {
		return
	}
	s.emit(events.VariantOrderMsg{
		Component: s.component,
		Product:   events.RefFromProduct(p),
		Order:     p.VariantIDs(),
	})
}

func (s *Session) emitSelectionLocked() {
	s.emit(events.SelectionChangeMsg{
		Component: s.component,
		Products:  s.pick.Selection().ProductIDs(),
	})
}

func (s *Session) emit(msg tea.Msg) {
	select {
	case s.eventCh <- msg:
	default:
	}
}
