package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/product"
)

const script = `
- op: add
- op: drag
  active: product-new-1
  over: product-77
- op: open-picker
  product: new-1
- op: next-page
- op: select-product
  product: 77
- op: select-variant
  product: 77
  variant: 1
- op: confirm
- op: discount
  product: 80
  type: percentage
  value: 12.5
- op: remove
  product: nope
- op: expand
  product: 77
`

func ids(products []product.Product) string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, string(p.ID))
	}
	return strings.Join(out, ",")
}

func newReplay() *Replay {
	return &Replay{
		Products: []product.Product{
			{ID: "80", Title: "Orbit Terrarium - Large", Variants: []product.Variant{{ID: "64", ProductID: "80", Title: "Default Title", Price: "109"}}},
		},
		Fetcher: fetch.NewMockFetcher(),
	}
}

func TestRun(t *testing.T) {
	intents, err := Parse([]byte(script))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if intents[4].Product != "77" {
		t.Fatalf("numeric ids should decode as strings, got %q", intents[4].Product)
	}

	res, err := newReplay().Run(context.Background(), intents)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	snap := res.Snapshot

	// the placeholder was dragged onto 77, which was not in the catalog yet
	if res.Steps[1].Error == "" {
		t.Fatalf("drag onto a missing product should be ignored")
	}
	if got := ids(snap.Products); got != "80,77" {
		t.Fatalf("want 80,77, got %s", got)
	}
	p, _ := snap.Find("77")
	if got := fmt.Sprint(p.VariantIDs()); got != "[2 3]" {
		t.Fatalf("want [2 3], got %s", got)
	}
	d, _ := snap.Find("80")
	if d.Discount == nil || d.Discount.Type != product.DiscountPercentage || d.Discount.Value != 12.5 {
		t.Fatalf("unexpected discount %+v", d.Discount)
	}
	if res.Steps[8].Error == "" {
		t.Fatalf("removing a missing product should record an error")
	}
	if !snap.IsExpanded("77") || res.Steps[9].Error != "" {
		t.Fatalf("77 should be expanded")
	}
}

func TestParseRejectsMissingOp(t *testing.T) {
	if _, err := Parse([]byte("- product: 1\n")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunRejectsUnknownOp(t *testing.T) {
	if _, err := newReplay().Run(context.Background(), []Intent{{Op: "fly"}}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDoJSON(t *testing.T) {
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var buf bytes.Buffer
	saved := color.Output
	color.Output = &buf
	t.Cleanup(func() { color.Output = saved })

	r := newReplay()
	r.Path = path
	r.Output = &options.OutputOptions{JSON: true}
	if err := r.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	var res Result
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, buf.String())
	}
	if len(res.Steps) != 10 || len(res.Snapshot.Products) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestDoPretty(t *testing.T) {
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var buf bytes.Buffer
	r := newReplay()
	r.Path = path
	r.Verbose = true
	r.Out = &buf
	if err := r.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Products - 2 products", "Fog Linen", "12.5% off", "ignored"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
