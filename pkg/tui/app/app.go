// Package app implements the Bubble Tea product manager: an ordered product
// list with keyboard reorder, variant expansion, a discount editor and the
// product picker dialog.
package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"tableflip.dev/curate/pkg/events"
	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/product"
	"tableflip.dev/curate/pkg/session"
	"tableflip.dev/curate/pkg/tui/theme"
)

type mode int

const (
	modeNormal mode = iota
	modePicker
	modeDiscount
)

// pageMsg delivers a fetched picker page.
type pageMsg struct {
	req   fetch.Request
	items []product.Product
	err   error
}

// Model contains UI state.
type Model struct {
	ctx     context.Context
	sess    *session.Session
	fetcher fetch.Fetcher
	theme   theme.Theme

	mode mode
	snap session.Snapshot

	cursor int

	pickCursor  int
	searchFocus bool
	search      textinput.Model

	discount       textinput.Model
	discountType   product.DiscountType
	discountTarget product.ID

	status string

	width  int
	height int
}

// New builds the manager around an existing session.
func New(ctx context.Context, sess *session.Session, fetcher fetch.Fetcher) *Model {
	search := textinput.New()
	search.Placeholder = "Search products"
	search.CharLimit = 128
	search.Prompt = "/ "
	search.Styles.Cursor.Color = lipgloss.Color("212")

	discount := textinput.New()
	discount.Placeholder = "0"
	discount.CharLimit = 16
	discount.Prompt = ""

	return &Model{
		ctx:      ctx,
		sess:     sess,
		fetcher:  fetcher,
		theme:    theme.Default(),
		snap:     sess.Snapshot(),
		search:   search,
		discount: discount,
		width:    80,
		height:   24,
	}
}

// Init subscribes to session events.
func (m *Model) Init() tea.Cmd {
	return events.Wait(m.sess.Events())
}

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case pageMsg:
		m.snap = m.sess.ApplyPage(msg.req, msg.items, msg.err)
		m.pickCursor = clampCursor(m.pickCursor, len(candidateRows(m.snap.Picker.Candidates)))
	case events.Describer:
		log.Debug().Str("event", msg.Describe()).Msg("[TUI] session event")
		cmds = append(cmds, events.Wait(m.sess.Events()))
	case tea.KeyPressMsg:
		switch m.mode {
		case modePicker:
			m.handlePickerKey(msg, &cmds)
		case modeDiscount:
			m.handleDiscountKey(msg, &cmds)
		default:
			m.handleNormalKey(msg, &cmds)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) apply(snap session.Snapshot) {
	m.snap = snap
	m.cursor = clampCursor(m.cursor, len(catalogRows(snap)))
	if snap.LastError != "" {
		m.status = snap.LastError
	}
}

func (m *Model) current() (row, bool) {
	rows := catalogRows(m.snap)
	if m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		*cmds = append(*cmds, tea.Quit)
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(catalogRows(m.snap)))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(catalogRows(m.snap)))
	case "shift+up", "K":
		m.move(-1)
	case "shift+down", "J":
		m.move(1)
	case "enter", "space", " ":
		r, ok := m.current()
		if !ok || r.kind != rowProduct {
			return
		}
		if !m.snap.CanExpand(r.product) {
			m.status = "nothing to expand"
			return
		}
		m.apply(m.sess.ToggleExpanded(r.product))
	case "a":
		m.apply(m.sess.AddProduct())
		m.cursor = len(catalogRows(m.snap)) - 1
	case "e":
		r, ok := m.current()
		if !ok {
			return
		}
		m.openPicker(r.product, cmds)
	case "x", "delete", "backspace":
		r, ok := m.current()
		if !ok {
			return
		}
		if r.kind == rowVariant {
			m.apply(m.sess.RemoveVariant(r.product, r.variant))
		} else {
			m.apply(m.sess.RemoveProduct(r.product))
		}
	case "%", "d":
		r, ok := m.current()
		if !ok || r.kind != rowProduct {
			return
		}
		m.openDiscount(r.product, cmds)
	}
}

// move reorders the row under the cursor by dragging it onto its neighbour.
func (m *Model) move(delta int) {
	r, ok := m.current()
	if !ok {
		return
	}
	over := sibling(m.snap, r, delta)
	if over == "" {
		return
	}
	m.sess.DragStart(r.token())
	m.apply(m.sess.DragEnd("", over))
	if idx := locate(catalogRows(m.snap), r.token()); idx >= 0 {
		m.cursor = idx
	}
}

func (m *Model) openPicker(target product.ID, cmds *[]tea.Cmd) {
	m.apply(m.sess.OpenPicker(target))
	if !m.snap.Picker.Open {
		return
	}
	m.mode = modePicker
	m.pickCursor = 0
	m.searchFocus = true
	m.search.Reset()
	if cmd := m.search.Focus(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	if cmd := m.fetchNext(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) closePicker() {
	m.search.Blur()
	m.mode = modeNormal
	m.cursor = clampCursor(m.cursor, len(catalogRows(m.snap)))
}

// fetchNext starts loading the next picker page, if one is due.
func (m *Model) fetchNext() tea.Cmd {
	if m.fetcher == nil {
		return nil
	}
	req, ok := m.sess.BeginFetch()
	if !ok {
		return nil
	}
	m.snap = m.sess.Snapshot()
	ctx, fetcher := m.ctx, m.fetcher
	return func() tea.Msg {
		items, err := fetcher.Fetch(ctx, req)
		return pageMsg{req: req, items: items, err: err}
	}
}

func (m *Model) handlePickerKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		*cmds = append(*cmds, tea.Quit)
		return
	case "esc":
		m.apply(m.sess.ClosePicker())
		m.closePicker()
		return
	case "enter":
		m.apply(m.sess.ConfirmPicker())
		m.closePicker()
		return
	case "tab":
		m.searchFocus = !m.searchFocus
		if m.searchFocus {
			if cmd := m.search.Focus(); cmd != nil {
				*cmds = append(*cmds, cmd)
			}
		} else {
			m.search.Blur()
		}
		return
	case "ctrl+n":
		if cmd := m.fetchNext(); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		return
	}

	if m.searchFocus {
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		if after := m.search.Value(); after != before {
			m.snap = m.sess.Search(after)
			m.pickCursor = 0
			if cmd := m.fetchNext(); cmd != nil {
				*cmds = append(*cmds, cmd)
			}
		}
		return
	}

	rows := candidateRows(m.snap.Picker.Candidates)
	switch key {
	case "up", "k":
		m.pickCursor = clampCursor(m.pickCursor-1, len(rows))
	case "down", "j":
		m.pickCursor = clampCursor(m.pickCursor+1, len(rows))
		if m.pickCursor >= len(rows)-1 {
			if cmd := m.fetchNext(); cmd != nil {
				*cmds = append(*cmds, cmd)
			}
		}
	case "/":
		m.searchFocus = true
		if cmd := m.search.Focus(); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
	case "space", " ", "x":
		if m.pickCursor >= len(rows) {
			return
		}
		r := rows[m.pickCursor]
		if r.kind == rowVariant {
			m.apply(m.sess.ToggleVariant(r.product, r.variant))
		} else {
			m.apply(m.sess.ToggleProduct(r.product))
		}
	}
}

func (m *Model) openDiscount(target product.ID, cmds *[]tea.Cmd) {
	p, ok := m.snap.Find(target)
	if !ok {
		return
	}
	d := product.DefaultDiscount()
	if p.Discount != nil {
		d = p.Discount.Normalize()
	}
	m.mode = modeDiscount
	m.discountTarget = target
	m.discountType = d.Type
	m.discount.SetValue(strconv.FormatFloat(d.Value, 'f', -1, 64))
	if cmd := m.discount.Focus(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) handleDiscountKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		*cmds = append(*cmds, tea.Quit)
	case "esc":
		m.discount.Blur()
		m.mode = modeNormal
	case "tab":
		if m.discountType == product.DiscountPercentage {
			m.discountType = product.DiscountFlat
		} else {
			m.discountType = product.DiscountPercentage
		}
	case "enter":
		value, err := strconv.ParseFloat(strings.TrimSpace(m.discount.Value()), 64)
		if err != nil {
			value = 0
		}
		m.apply(m.sess.SetDiscount(m.discountTarget, product.Discount{Type: m.discountType, Value: value}))
		m.discount.Blur()
		m.mode = modeNormal
	default:
		var cmd tea.Cmd
		m.discount, cmd = m.discount.Update(msg)
		if cmd != nil {
			*cmds = append(*cmds, cmd)
		}
	}
}

// Run launches the Bubble Tea UI.
func Run(ctx context.Context, sess *session.Session, fetcher fetch.Fetcher) error {
	p := tea.NewProgram(New(ctx, sess, fetcher), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
