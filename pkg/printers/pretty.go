package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/curate/pkg/product"
	"tableflip.dev/curate/pkg/session"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " product")
	default:
		_, _ = c.Fprintln(pp.out(), " products")
	}
}

// Products renders a numbered table of products with their variants listed
// underneath.
func (pp *PrettyPrint) Products(products ...product.Product) {
	if len(products) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	g := color.New(color.FgGreen)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60

	for i, p := range products {
		title := bold.Sprint(p.Title)
		if p.IsPlaceholder() {
			title = faint.Sprint(p.Title)
		}
		discount := ""
		if p.Discount != nil {
			discount = g.Sprint(p.Discount.String())
		}
		cells := []interface{}{fmt.Sprintf("%d.", i+1)}
		if pp.ShowID {
			cells = append(cells, y.Sprint(p.ID))
		}
		cells = append(cells, title, discount)
		tbl.AddRow(cells...)

		for _, v := range p.Variants {
			cells := []interface{}{""}
			if pp.ShowID {
				cells = append(cells, y.Sprint(v.ID))
			}
			cells = append(cells, "  "+v.Title, faint.Sprint(v.Price))
			tbl.AddRow(cells...)
		}
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Snapshot renders the catalog followed by any open picker and the last
// recovered error.
func (pp *PrettyPrint) Snapshot(snap session.Snapshot) {
	pp.TitleWithCount("Products", len(snap.Products))
	pp.Products(snap.Products...)

	if snap.Picker.Open {
		pp.Title(fmt.Sprintf("Picker for %s", snap.Picker.Target))
		if snap.Picker.Query != "" {
			_, _ = color.New(color.Faint).Fprintf(pp.out(), "search: %q\n", snap.Picker.Query)
		}
		pp.Selection(snap)
	}
	if snap.LastError != "" {
		_, _ = color.New(color.FgRed).Fprintf(pp.out(), "last error: %s\n", snap.LastError)
	}
}

// Selection lists the picker candidates with their checkbox state.
func (pp *PrettyPrint) Selection(snap session.Snapshot) {
	sel := color.New(color.FgMagenta)
	tbl := uitable.New()
	tbl.Separator = " "
	for _, p := range snap.Picker.Candidates {
		box := "[ ]"
		if snap.IsSelected(p.ID) {
			box = sel.Sprint("[x]")
			if len(snap.SelectedVariants[p.ID]) < len(p.Variants) {
				box = sel.Sprint("[-]")
			}
		}
		tbl.AddRow(box, p.Title)
		for _, v := range p.Variants {
			vbox := "    [ ]"
			if snap.IsVariantSelected(p.ID, v.ID) {
				vbox = sel.Sprint("    [x]")
			}
			tbl.AddRow(vbox, strings.TrimSpace(v.Title+" "+v.Price))
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = color.New(color.Faint).Fprintln(pp.out(), snap.Picker.Summary)
	pp.NewLine()
}
