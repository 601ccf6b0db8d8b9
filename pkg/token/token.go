// Package token encodes draggable identifiers.
//
// A token is "<kind>-<raw id>". The kind prefixes ("product-", "variant-")
// are prefix-free with respect to each other, so a token decodes to exactly
// one (kind, raw id) pair no matter which characters the raw id contains; in
// particular uuids containing the separator are safe. Raw ids must be
// non-empty. Nothing outside this package inspects token text.
package token

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/curate/pkg/product"
)

// ErrMalformed is returned for tokens without a recognized kind prefix or
// without a raw id.
var ErrMalformed = errors.New("token: malformed token")

// Separator joins the kind prefix and the raw id.
const Separator = "-"

// Kind tags which level of the hierarchy a token refers to.
type Kind int

const (
	KindUnknown Kind = iota
	KindProduct
	KindVariant
)

var prefixes = map[Kind]string{
	KindProduct: "product",
	KindVariant: "variant",
}

func (k Kind) String() string {
	if p, ok := prefixes[k]; ok {
		return p
	}
	return "unknown"
}

// Token is the encoded, comparable form handed to the drag layer.
type Token string

// Ref is the decoded form of a Token.
type Ref struct {
	Kind Kind
	Raw  product.ID
}

// Token re-encodes the ref.
func (r Ref) Token() Token {
	return Encode(r.Kind, r.Raw)
}

// Encode builds the token for raw under kind. It panics on an unknown kind.
func Encode(kind Kind, raw product.ID) Token {
	prefix, ok := prefixes[kind]
	if !ok {
		panic(fmt.Sprintf("token: unknown kind %d", kind))
	}
	return Token(prefix + Separator + string(raw))
}

// Product is shorthand for Encode(KindProduct, id).
func Product(id product.ID) Token { return Encode(KindProduct, id) }

// Variant is shorthand for Encode(KindVariant, id).
func Variant(id product.ID) Token { return Encode(KindVariant, id) }

// Decode splits t into its kind and raw id.
func Decode(t Token) (Ref, error) {
	s := string(t)
	for kind, prefix := range prefixes {
		head := prefix + Separator
		if !strings.HasPrefix(s, head) {
			continue
		}
		raw := s[len(head):]
		if raw == "" {
			return Ref{}, fmt.Errorf("%w: %q has no id", ErrMalformed, s)
		}
		return Ref{Kind: kind, Raw: product.ID(raw)}, nil
	}
	return Ref{}, fmt.Errorf("%w: %q", ErrMalformed, s)
}
