package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Panel  PanelTheme
	Row    RowTheme
	Modal  ModalTheme
}

// FooterTheme groups styles used by the bottom status/help bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// PanelTheme styles the framed product list.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// RowTheme styles product and variant rows.
type RowTheme struct {
	Product     lipgloss.Style
	Placeholder lipgloss.Style
	Variant     lipgloss.Style
	Price       lipgloss.Style
	Discount    lipgloss.Style
	Caret       lipgloss.Style
	Selected    lipgloss.Style
	Handle      lipgloss.Style
}

// ModalTheme styles the centered picker and discount dialogs.
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
		Row: RowTheme{
			Product:     lipgloss.NewStyle().Bold(true),
			Placeholder: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244")),
			Variant:     lipgloss.NewStyle(),
			Price:       muted,
			Discount:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			Caret:       lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
			Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
			Handle:      muted,
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
			Muted: muted,
		},
	}
}
