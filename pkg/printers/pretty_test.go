package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/product"
	"tableflip.dev/curate/pkg/session"
)

func TestProducts(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf, ShowID: true}

	p := fetch.SampleProducts()
	p[1].Discount = &product.Discount{Type: product.DiscountPercentage, Value: 10}
	pp.TitleWithCount("Products", len(p))
	pp.Products(p...)

	out := buf.String()
	for _, want := range []string{"Products - 2 products", "1.", "Fog Linen Chambray Towel", "XS / Silver", "Orbit Terrarium", "10% off", "64"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSnapshotWithPicker(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}

	s := session.New(session.WithProducts(fetch.SampleProducts()...))
	s.OpenPicker("80")
	s.ApplyPage(mustBegin(t, s), fetch.SampleProducts(), nil)
	snap := s.ToggleVariant("77", "2")
	pp.Snapshot(snap)

	out := buf.String()
	for _, want := range []string{"Picker for 80", "[-]", "Fog Linen", "[x] S / Silver 49", "1 product selected"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmpty(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).Products()
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("want none, got %q", buf.String())
	}
}

func mustBegin(t *testing.T, s *session.Session) fetch.Request {
	t.Helper()
	req, ok := s.BeginFetch()
	if !ok {
		t.Fatalf("BeginFetch refused")
	}
	return req
}
