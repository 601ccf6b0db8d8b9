package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/curate/pkg/ordered"
	"tableflip.dev/curate/pkg/product"
)

const (
	normalHelp = "↑/↓ move  K/J reorder  enter variants  a add  e edit  d discount  x remove  q quit"
	pickerHelp = "tab focus list/search  space toggle  ctrl+n more  enter confirm  esc cancel"
	ellipsis   = "…"
)

// View renders the current mode.
func (m *Model) View() string {
	switch m.mode {
	case modePicker:
		return m.place(m.pickerView())
	case modeDiscount:
		return m.place(m.discountView())
	}
	return m.managerView()
}

func (m *Model) place(modal string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m *Model) lineWidth() int {
	w := m.width - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) managerView() string {
	th := m.theme
	var b strings.Builder
	b.WriteString(th.Panel.Title.Render("Products"))
	b.WriteString("\n\n")

	rows := catalogRows(m.snap)
	if len(rows) == 0 {
		b.WriteString(th.Modal.Muted.Render("No products. Press a to add one."))
		b.WriteString("\n")
	}
	for i, r := range rows {
		p, _ := m.snap.Find(r.product)
		var line string
		if r.kind == rowProduct {
			line = m.productLine(p, r.index)
		} else {
			line = m.variantLine(p, r.index)
		}
		line = truncate.StringWithTail(line, uint(m.lineWidth()), ellipsis)
		caret := "  "
		if i == m.cursor {
			caret = th.Row.Caret.Render("→ ")
		}
		b.WriteString(caret + line + "\n")
	}

	frame := th.Panel.Frame
	if m.width > 2 {
		frame = frame.Width(m.width - 2)
	}
	out := frame.Render(strings.TrimRight(b.String(), "\n"))
	return out + "\n" + m.footer(normalHelp)
}

func (m *Model) productLine(p product.Product, index int) string {
	th := m.theme.Row
	title := th.Product.Render(p.Title)
	if p.IsPlaceholder() {
		title = th.Placeholder.Render(p.Title)
	}
	line := fmt.Sprintf("%s %d. %s", th.Handle.Render("⋮⋮"), index+1, title)
	if p.Discount != nil {
		line += " " + th.Discount.Render(p.Discount.String())
	}
	if m.snap.CanExpand(p.ID) {
		hint := "show variants"
		if m.snap.IsExpanded(p.ID) {
			hint = "hide variants"
		}
		line += " " + th.Price.Render("("+hint+")")
	}
	return line
}

func (m *Model) variantLine(p product.Product, index int) string {
	th := m.theme.Row
	if index < 0 || index >= len(p.Variants) {
		return ""
	}
	v := p.Variants[index]
	return fmt.Sprintf("     %s %s %s", th.Handle.Render("⋮"), th.Variant.Render(v.Title), th.Price.Render(v.Price))
}

func (m *Model) pickerView() string {
	th := m.theme
	view := m.snap.Picker
	var b strings.Builder
	b.WriteString(th.Modal.Title.Render("Select Products"))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	width := uint(m.lineWidth() - 8)
	rows := candidateRows(view.Candidates)
	for i, r := range rows {
		caret := "  "
		if !m.searchFocus && i == m.pickCursor {
			caret = th.Row.Caret.Render("→ ")
		}
		p := view.Candidates[ordered.IndexOf(view.Candidates, r.product)]
		var line string
		if r.kind == rowProduct {
			line = fmt.Sprintf("%s %s", m.productBox(p), th.Row.Product.Render(p.Title))
		} else {
			v := p.Variants[r.index]
			box := "[ ]"
			if m.snap.IsVariantSelected(p.ID, v.ID) {
				box = th.Row.Selected.Render("[x]")
			}
			line = fmt.Sprintf("    %s %s %s", box, v.Title, th.Row.Price.Render(v.Price))
		}
		b.WriteString(caret + truncate.StringWithTail(line, width, ellipsis) + "\n")
	}

	switch {
	case view.Loading:
		b.WriteString(th.Modal.Muted.Render("Loading…") + "\n")
	case view.Err != "":
		b.WriteString(th.Footer.Error.Render(view.Err) + "\n")
	case len(rows) == 0:
		b.WriteString(th.Modal.Muted.Render("No products found.") + "\n")
	case !view.HasMore:
		b.WriteString(th.Modal.Muted.Render("End of results.") + "\n")
	}
	b.WriteString("\n" + th.Footer.Status.Render(view.Summary))
	b.WriteString("\n" + th.Footer.Help.Render(wordwrap.String(pickerHelp, int(width))))
	return th.Modal.Frame.Render(b.String())
}

// productBox renders [x] for a fully selected product and [-] for a partial
// one.
func (m *Model) productBox(p product.Product) string {
	if !m.snap.IsSelected(p.ID) {
		return "[ ]"
	}
	if len(m.snap.SelectedVariants[p.ID]) < len(p.Variants) {
		return m.theme.Row.Selected.Render("[-]")
	}
	return m.theme.Row.Selected.Render("[x]")
}

func (m *Model) discountView() string {
	th := m.theme
	p, _ := m.snap.Find(m.discountTarget)
	var b strings.Builder
	b.WriteString(th.Modal.Title.Render("Discount"))
	b.WriteString("\n" + th.Modal.Muted.Render(p.Title) + "\n\n")
	flat, pct := "( ) flat", "( ) % off"
	if m.discountType == product.DiscountPercentage {
		pct = th.Row.Selected.Render("(•) % off")
	} else {
		flat = th.Row.Selected.Render("(•) flat")
	}
	b.WriteString(flat + "  " + pct + "\n\n")
	b.WriteString("value: " + m.discount.View() + "\n\n")
	b.WriteString(th.Footer.Help.Render("tab type  enter apply  esc cancel"))
	return th.Modal.Frame.Render(b.String())
}

func (m *Model) footer(help string) string {
	th := m.theme.Footer
	line := th.Help.Render(wordwrap.String(help, m.lineWidth()))
	switch {
	case m.snap.LastError != "" && m.status == m.snap.LastError:
		line += "\n" + th.Error.Render(m.status)
	case m.status != "":
		line += "\n" + th.Status.Render(m.status)
	}
	return line
}
