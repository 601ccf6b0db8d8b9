package product

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PlaceholderTitle labels a locally added row that has not been replaced by a
// picker selection yet.
const PlaceholderTitle = "Select Product"

// ID is an opaque product or variant identifier. Remote catalogs hand out
// integers, locally synthesized rows use uuids; both are kept as text.
type ID string

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product: id %s: %w", string(b), err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids back as numbers so remote payloads round-trip.
func (id ID) MarshalJSON() ([]byte, error) {
	if isDecimal(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func isDecimal(s string) bool {
	if s == "" || len(s) > 18 || (len(s) > 1 && s[0] == '0') {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

// Variant is immutable once fetched.
type Variant struct {
	ID        ID     `json:"id"`
	ProductID ID     `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
}

// Key implements ordered.Keyed.
func (v Variant) Key() ID { return v.ID }

// Image is passed through untouched from the catalog source.
type Image struct {
	ID        ID     `json:"id,omitempty"`
	ProductID ID     `json:"product_id,omitempty"`
	Src       string `json:"src,omitempty"`
}

// DiscountType is either flat or percentage.
type DiscountType string

const (
	DiscountFlat       DiscountType = "flat"
	DiscountPercentage DiscountType = "percentage"
)

// ParseDiscountType maps user input onto a DiscountType. Unknown values fall
// back to flat.
func ParseDiscountType(s string) DiscountType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percentage", "percent", "%", "% off":
		return DiscountPercentage
	default:
		return DiscountFlat
	}
}

// Discount is a cosmetic per-product discount.
type Discount struct {
	Type  DiscountType `json:"type"`
	Value float64      `json:"value"`
}

// DefaultDiscount is what the editor shows before the first change.
func DefaultDiscount() Discount {
	return Discount{Type: DiscountFlat, Value: 0}
}

// Normalize clamps Value to a finite number >= 0 and fills an unknown type
// with flat.
func (d Discount) Normalize() Discount {
	if math.IsNaN(d.Value) || math.IsInf(d.Value, 0) || d.Value < 0 {
		d.Value = 0
	}
	if d.Type != DiscountPercentage {
		d.Type = DiscountFlat
	}
	return d
}

func (d Discount) String() string {
	v := strconv.FormatFloat(d.Value, 'f', -1, 64)
	if d.Type == DiscountPercentage {
		return v + "% off"
	}
	return v + " flat"
}

// Product owns its variants exclusively.
type Product struct {
	ID       ID        `json:"id"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
	Image    *Image    `json:"image,omitempty"`
	Discount *Discount `json:"discount,omitempty"`
}

// Key implements ordered.Keyed.
func (p Product) Key() ID { return p.ID }

// NewPlaceholder builds an empty row awaiting a picker selection.
func NewPlaceholder(id ID) Product {
	return Product{ID: id, Title: PlaceholderTitle}
}

// IsPlaceholder reports whether the row was synthesized locally and never
// replaced.
func (p Product) IsPlaceholder() bool {
	return p.Title == PlaceholderTitle && len(p.Variants) == 0
}

// VariantIDs returns the variant ids in order.
func (p Product) VariantIDs() []ID {
	if len(p.Variants) == 0 {
		return nil
	}
	ids := make([]ID, len(p.Variants))
	for i, v := range p.Variants {
		ids[i] = v.ID
	}
	return ids
}

// HasVariant reports whether id is one of the product's variants.
func (p Product) HasVariant(id ID) bool {
	return p.VariantIndex(id) >= 0
}

// VariantIndex returns the position of id, or -1.
func (p Product) VariantIndex(id ID) int {
	for i, v := range p.Variants {
		if v.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can never reach shared backing arrays.
func (p Product) Clone() Product {
	out := p
	if p.Variants != nil {
		out.Variants = append([]Variant(nil), p.Variants...)
	}
	if p.Image != nil {
		img := *p.Image
		out.Image = &img
	}
	if p.Discount != nil {
		d := *p.Discount
		out.Discount = &d
	}
	return out
}

// CloneAll deep copies a product list.
func CloneAll(list []Product) []Product {
	if list == nil {
		return nil
	}
	out := make([]Product, len(list))
	for i := range list {
		out[i] = list[i].Clone()
	}
	return out
}
