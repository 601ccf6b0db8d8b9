// Package catalog is the hierarchy store: an ordered list of products, each
// owning an ordered list of variants. A Catalog value is immutable; every
// mutation returns a new Catalog and leaves the receiver untouched, so two
// snapshots can be compared for change detection.
package catalog

import (
	"errors"
	"fmt"

	"tableflip.dev/curate/pkg/ordered"
	"tableflip.dev/curate/pkg/product"
)

// ErrNotFound is returned when an operation references an id that is no
// longer in the catalog. Callers in an interactive session treat it as a
// no-op.
var ErrNotFound = errors.New("catalog: not found")

// Catalog is an immutable snapshot of the product hierarchy.
type Catalog struct {
	products []product.Product
	version  uint64
}

// New builds a catalog from products. The input is deep-copied. Duplicate ids
// are not repaired.
func New(products ...product.Product) Catalog {
	return Catalog{products: product.CloneAll(products)}
}

// Products returns a deep copy of the products in order.
func (c Catalog) Products() []product.Product {
	return product.CloneAll(c.products)
}

// Len is the number of products.
func (c Catalog) Len() int { return len(c.products) }

// Version increases by one with every committed mutation.
func (c Catalog) Version() uint64 { return c.version }

// IDs lists product ids in order.
func (c Catalog) IDs() []product.ID {
	return ordered.Keys[product.Product, product.ID](c.products)
}

// IndexOf returns the current position of id, or -1.
func (c Catalog) IndexOf(id product.ID) int {
	return ordered.IndexOf(c.products, id)
}

// Find returns a copy of the product with id.
func (c Catalog) Find(id product.ID) (product.Product, bool) {
	idx := c.IndexOf(id)
	if idx < 0 {
		return product.Product{}, false
	}
	return c.products[idx].Clone(), true
}

// At returns a copy of the product at index.
func (c Catalog) At(index int) (product.Product, bool) {
	if index < 0 || index >= len(c.products) {
		return product.Product{}, false
	}
	return c.products[index].Clone(), true
}

// OwnerOf returns the first product whose variants include variantID.
func (c Catalog) OwnerOf(variantID product.ID) (product.Product, bool) {
	for _, p := range c.products {
		if p.HasVariant(variantID) {
			return p.Clone(), true
		}
	}
	return product.Product{}, false
}

// AddProduct appends p.
func (c Catalog) AddProduct(p product.Product) Catalog {
	return c.commit(ordered.InsertAt(c.products, len(c.products), p.Clone()))
}

// AddPlaceholder appends an empty "unselected" row with the given id.
func (c Catalog) AddPlaceholder(id product.ID) Catalog {
	return c.AddProduct(product.NewPlaceholder(id))
}

// RemoveProduct drops the product with id together with its variants.
func (c Catalog) RemoveProduct(id product.ID) (Catalog, error) {
	next, err := ordered.RemoveByID(c.products, id)
	if err != nil {
		return c, notFound("product", id, err)
	}
	return c.commit(next), nil
}

// ReplaceProduct splices items, in order, where id currently sits. An empty
// items list removes the row.
func (c Catalog) ReplaceProduct(id product.ID, items []product.Product) (Catalog, error) {
	next, err := ordered.InsertReplacing(c.products, id, product.CloneAll(items)...)
	if err != nil {
		return c, notFound("product", id, err)
	}
	return c.commit(next), nil
}

// RemoveVariant drops one variant from its product.
func (c Catalog) RemoveVariant(productID, variantID product.ID) (Catalog, error) {
	var inner error
	next, err := ordered.Update(c.products, productID, func(p product.Product) product.Product {
		variants, err := ordered.RemoveByID(p.Variants, variantID)
		if err != nil {
			inner = err
			return p
		}
		p.Variants = variants
		return p
	})
	if err != nil {
		return c, notFound("product", productID, err)
	}
	if inner != nil {
		return c, notFound("variant", variantID, inner)
	}
	return c.commit(next), nil
}

// SetDiscount replaces the discount of a product. The value is clamped to a
// finite number >= 0; it never fails for bad values.
func (c Catalog) SetDiscount(productID product.ID, d product.Discount) (Catalog, error) {
	d = d.Normalize()
	next, err := ordered.Update(c.products, productID, func(p product.Product) product.Product {
		p.Discount = &d
		return p
	})
	if err != nil {
		return c, notFound("product", productID, err)
	}
	return c.commit(next), nil
}

// ReorderProduct moves fromID to toIndex (post-removal index).
func (c Catalog) ReorderProduct(fromID product.ID, toIndex int) (Catalog, error) {
	next, err := ordered.MoveByID(c.products, fromID, toIndex)
	if err != nil {
		return c, notFound("product", fromID, err)
	}
	return c.commit(next), nil
}

// ReorderVariant moves a variant within its own product.
func (c Catalog) ReorderVariant(productID, fromID product.ID, toIndex int) (Catalog, error) {
	var inner error
	next, err := ordered.Update(c.products, productID, func(p product.Product) product.Product {
		variants, err := ordered.MoveByID(p.Variants, fromID, toIndex)
		if err != nil {
			inner = err
			return p
		}
		p.Variants = variants
		return p
	})
	if err != nil {
		return c, notFound("product", productID, err)
	}
	if inner != nil {
		return c, notFound("variant", fromID, inner)
	}
	return c.commit(next), nil
}

func (c Catalog) commit(products []product.Product) Catalog {
	return Catalog{products: products, version: c.version + 1}
}

func notFound(what string, id product.ID, cause error) error {
	return fmt.Errorf("%w: %s %q (%v)", ErrNotFound, what, id, cause)
}
