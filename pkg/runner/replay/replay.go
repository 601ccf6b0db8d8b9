// Package replay applies a scripted list of intents to a session and prints
// the resulting state. Scripts are YAML:
//
//	- op: add
//	- op: open-picker
//	  product: new-1
//	- op: next-page
//	- op: select-variant
//	  product: "77"
//	  variant: "2"
//	- op: confirm
package replay

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"sigs.k8s.io/yaml"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/printers"
	"tableflip.dev/curate/pkg/product"
	"tableflip.dev/curate/pkg/session"
	"tableflip.dev/curate/pkg/token"
)

// Op names an intent.
type Op string

const (
	OpAdd            Op = "add"
	OpRemove         Op = "remove"
	OpReplace        Op = "replace"
	OpRemoveVariant  Op = "remove-variant"
	OpDiscount       Op = "discount"
	OpReorder        Op = "reorder"
	OpReorderVariant Op = "reorder-variant"
	OpDrag           Op = "drag"
	OpExpand         Op = "expand"
	OpOpenPicker     Op = "open-picker"
	OpClosePicker    Op = "close-picker"
	OpSearch         Op = "search"
	OpNextPage       Op = "next-page"
	OpSelectProduct  Op = "select-product"
	OpSelectVariant  Op = "select-variant"
	OpConfirm        Op = "confirm"
)

// Intent is one scripted user action. Only the fields the op needs are read.
type Intent struct {
	Op      Op                `json:"op"`
	Product product.ID        `json:"product,omitempty"`
	Variant product.ID        `json:"variant,omitempty"`
	Index   int               `json:"index,omitempty"`
	Items   []product.Product `json:"items,omitempty"`
	Type    string            `json:"type,omitempty"`
	Value   float64           `json:"value,omitempty"`
	Active  token.Token       `json:"active,omitempty"`
	Over    token.Token       `json:"over,omitempty"`
	Query   string            `json:"query,omitempty"`
}

// Step records the outcome of one intent.
type Step struct {
	Op    Op     `json:"op"`
	Error string `json:"error,omitempty"`
}

// Result is what a replay prints.
type Result struct {
	Steps    []Step           `json:"steps"`
	Snapshot session.Snapshot `json:"snapshot"`
}

type Replay struct {
	Path     string
	Products []product.Product
	Fetcher  fetch.Fetcher
	PageSize int
	Verbose  bool

	Printer *printers.PrettyPrint
	Output  *options.OutputOptions
	Out     io.Writer
}

func (r *Replay) Do(ctx context.Context) error {
	intents, err := Load(r.Path)
	if err != nil {
		return err
	}
	res, err := r.Run(ctx, intents)
	if err != nil {
		return err
	}
	if r.Output != nil && r.Output.JSON {
		return r.Output.Print(res)
	}

	out := r.Out
	if out == nil {
		out = color.Output
	}
	if r.Verbose {
		faint := color.New(color.Faint)
		for i, s := range res.Steps {
			if s.Error != "" {
				_, _ = faint.Fprintf(out, "%3d %-16s ignored: %s\n", i+1, s.Op, s.Error)
			} else {
				_, _ = faint.Fprintf(out, "%3d %s\n", i+1, s.Op)
			}
		}
		_, _ = fmt.Fprintln(out, "")
	}
	pp := r.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{Out: out}
	}
	pp.Snapshot(res.Snapshot)
	return nil
}

// Load reads a YAML intent script.
func Load(path string) ([]Intent, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes a YAML intent script.
func Parse(b []byte) ([]Intent, error) {
	var intents []Intent
	if err := yaml.Unmarshal(b, &intents); err != nil {
		return nil, fmt.Errorf("parse replay script: %w", err)
	}
	for i, in := range intents {
		if in.Op == "" {
			return nil, fmt.Errorf("intent %d: missing op", i+1)
		}
	}
	return intents, nil
}

// Run applies intents to a fresh session. Placeholder rows get the ids
// new-1, new-2, ... so scripts can refer to them.
func (r *Replay) Run(ctx context.Context, intents []Intent) (Result, error) {
	n := 0
	sess := session.New(
		session.WithProducts(r.Products...),
		session.WithFetcher(r.Fetcher),
		session.WithPageSize(r.PageSize),
		session.WithComponent("replay"),
		session.WithIDGenerator(func() product.ID {
			n++
			return product.ID(fmt.Sprintf("new-%d", n))
		}),
	)

	res := Result{Steps: make([]Step, 0, len(intents))}
	for i, in := range intents {
		snap, err := apply(ctx, sess, in)
		if err != nil {
			return Result{}, fmt.Errorf("intent %d: %w", i+1, err)
		}
		res.Steps = append(res.Steps, Step{Op: in.Op, Error: snap.LastError})
	}
	res.Snapshot = sess.Snapshot()
	return res, nil
}

func apply(ctx context.Context, s *session.Session, in Intent) (session.Snapshot, error) {
	switch in.Op {
	case OpAdd:
		return s.AddProduct(), nil
	case OpRemove:
		return s.RemoveProduct(in.Product), nil
	case OpReplace:
		return s.ReplaceProduct(in.Product, in.Items), nil
	case OpRemoveVariant:
		return s.RemoveVariant(in.Product, in.Variant), nil
	case OpDiscount:
		d := product.Discount{Type: product.ParseDiscountType(in.Type), Value: in.Value}
		return s.SetDiscount(in.Product, d), nil
	case OpReorder:
		return s.ReorderProduct(in.Product, in.Index), nil
	case OpReorderVariant:
		return s.ReorderVariant(in.Product, in.Variant, in.Index), nil
	case OpDrag:
		s.DragStart(in.Active)
		return s.DragEnd(in.Active, in.Over), nil
	case OpExpand:
		return s.ToggleExpanded(in.Product), nil
	case OpOpenPicker:
		return s.OpenPicker(in.Product), nil
	case OpClosePicker:
		return s.ClosePicker(), nil
	case OpSearch:
		return s.Search(in.Query), nil
	case OpNextPage:
		return s.NextPage(ctx), nil
	case OpSelectProduct:
		return s.ToggleProduct(in.Product), nil
	case OpSelectVariant:
		return s.ToggleVariant(in.Product, in.Variant), nil
	case OpConfirm:
		return s.ConfirmPicker(), nil
	}
	return session.Snapshot{}, fmt.Errorf("unknown op %q", in.Op)
}
