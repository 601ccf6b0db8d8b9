package pick

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/printers"
	"tableflip.dev/curate/pkg/product"
	"tableflip.dev/curate/pkg/prompt"
	"tableflip.dev/curate/pkg/session"
)

const (
	loadMore = "Load more..."
	done     = "Done"
)

// Pick adds a row to the list and fills it from a line-based prompt instead
// of the full screen manager.
type Pick struct {
	Source   fetch.Fetcher
	Products []product.Product
	Query    string
	PageSize int
	Chooser  prompt.Chooser

	Printer *printers.PrettyPrint
	Output  *options.OutputOptions
}

func (p *Pick) Do(ctx context.Context) error {
	snap, err := p.Run(ctx)
	if err != nil {
		return err
	}
	if p.Output != nil && p.Output.JSON {
		return p.Output.Print(snap)
	}
	pp := p.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.Snapshot(snap)
	return nil
}

// Run drives the picker until the user confirms or backs out. Backing out
// leaves the new row as a placeholder.
func (p *Pick) Run(ctx context.Context) (session.Snapshot, error) {
	sess := session.New(
		session.WithProducts(p.Products...),
		session.WithFetcher(p.Source),
		session.WithPageSize(p.PageSize),
		session.WithComponent("pick"),
	)
	snap := sess.AddProduct()
	target := snap.Products[len(snap.Products)-1].ID
	sess.OpenPicker(target)
	if p.Query != "" {
		sess.Search(p.Query)
	}
	snap = sess.NextPage(ctx)

	cursor := 0
	for {
		if snap.Picker.Err != "" {
			return snap, fmt.Errorf("pick: %s", snap.Picker.Err)
		}
		choices := Choices(snap)
		i, err := p.Chooser.Choose(label(snap), choices, cursor)
		if prompt.Canceled(err) {
			log.Debug().Msg("[Pick] canceled")
			return sess.ClosePicker(), nil
		}
		if err != nil {
			return snap, err
		}
		cursor = i

		switch c := choices[i]; {
		case c.Action && c.Name == done:
			return sess.ConfirmPicker(), nil
		case c.Action && c.Name == loadMore:
			snap = sess.NextPage(ctx)
		default:
			snap = sess.ToggleProduct(snap.Picker.Candidates[i].ID)
		}
	}
}

// Choices lists the loaded candidates followed by the control entries.
func Choices(snap session.Snapshot) []prompt.Choice {
	out := make([]prompt.Choice, 0, len(snap.Picker.Candidates)+2)
	for _, c := range snap.Picker.Candidates {
		out = append(out, prompt.Choice{
			Name:     c.Title,
			Detail:   variants(len(c.Variants)),
			Selected: snap.IsSelected(c.ID),
		})
	}
	if snap.Picker.HasMore {
		out = append(out, prompt.Choice{Name: loadMore, Action: true})
	}
	return append(out, prompt.Choice{Name: done, Action: true})
}

func label(snap session.Snapshot) string {
	if snap.Picker.Query != "" {
		return fmt.Sprintf("Pick %q (%s)", snap.Picker.Query, snap.Picker.Summary)
	}
	return fmt.Sprintf("Pick (%s)", snap.Picker.Summary)
}

func variants(n int) string {
	if n == 1 {
		return "1 variant"
	}
	return fmt.Sprintf("%d variants", n)
}
