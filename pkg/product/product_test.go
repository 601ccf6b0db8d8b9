package product

import (
	"encoding/json"
	"math"
	"testing"
)

func TestIDUnmarshalNumberAndString(t *testing.T) {
	var p Product
	raw := `{"id":77,"title":"Towel","variants":[{"id":"a-1","product_id":77,"title":"XS","price":"49"}]}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != "77" {
		t.Fatalf("expected id 77, got %q", p.ID)
	}
	if p.Variants[0].ID != "a-1" || p.Variants[0].ProductID != "77" {
		t.Fatalf("unexpected variant ids: %+v", p.Variants[0])
	}
}

func TestIDMarshalKeepsNumbers(t *testing.T) {
	b, err := json.Marshal(struct {
		A ID `json:"a"`
		B ID `json:"b"`
	}{A: "64", B: "6f1c-uuid"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(b); got != `{"a":64,"b":"6f1c-uuid"}` {
		t.Fatalf("unexpected json: %s", got)
	}
}

func TestDiscountNormalizeClamps(t *testing.T) {
	cases := []Discount{
		{Type: DiscountFlat, Value: -3},
		{Type: DiscountPercentage, Value: math.NaN()},
		{Type: "bogus", Value: math.Inf(1)},
	}
	for _, d := range cases {
		got := d.Normalize()
		if got.Value != 0 {
			t.Fatalf("expected value clamped to 0, got %v", got.Value)
		}
	}
	if got := (Discount{Type: "bogus", Value: 5}).Normalize(); got.Type != DiscountFlat || got.Value != 5 {
		t.Fatalf("unexpected normalized discount: %+v", got)
	}
}

func TestCloneDoesNotShareVariants(t *testing.T) {
	p := Product{ID: "1", Variants: []Variant{{ID: "v1"}, {ID: "v2"}}, Discount: &Discount{Value: 2}}
	c := p.Clone()
	c.Variants[0].Title = "changed"
	c.Discount.Value = 9
	if p.Variants[0].Title != "" || p.Discount.Value != 2 {
		t.Fatalf("clone leaked writes back to the original")
	}
}

func TestPlaceholder(t *testing.T) {
	p := NewPlaceholder("x")
	if !p.IsPlaceholder() {
		t.Fatalf("expected placeholder")
	}
	p.Variants = []Variant{{ID: "v"}}
	if p.IsPlaceholder() {
		t.Fatalf("a row with variants is not a placeholder")
	}
}
