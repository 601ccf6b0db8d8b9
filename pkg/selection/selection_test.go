package selection

import (
	"math/rand"
	"reflect"
	"testing"

	"tableflip.dev/curate/pkg/product"
)

func newProduct(id string, variants ...string) product.Product {
	p := product.Product{ID: product.ID(id), Title: id}
	for _, v := range variants {
		p.Variants = append(p.Variants, product.Variant{ID: product.ID(v), ProductID: p.ID})
	}
	return p
}

func assertConsistent(t *testing.T, s State) {
	t.Helper()
	for pid := range s.products {
		if len(s.variants[pid]) == 0 {
			t.Fatalf("product %q selected without selected variants", pid)
		}
	}
	for pid, set := range s.variants {
		if len(set) == 0 {
			t.Fatalf("empty variant entry kept for %q", pid)
		}
		if _, ok := s.products[pid]; !ok {
			t.Fatalf("variants selected under %q but product not selected", pid)
		}
	}
}

func TestSelectAllThenDeselectOne(t *testing.T) {
	p1 := newProduct("P1", "V1", "V2", "V3")

	s := New().ToggleProduct(p1)
	assertConsistent(t, s)
	if !reflect.DeepEqual(s.ProductIDs(), []product.ID{"P1"}) {
		t.Fatalf("expected P1 selected, got %v", s.ProductIDs())
	}
	if !reflect.DeepEqual(s.VariantIDs("P1"), []product.ID{"V1", "V2", "V3"}) {
		t.Fatalf("expected all variants, got %v", s.VariantIDs("P1"))
	}

	s = s.ToggleVariant("P1", "V1")
	assertConsistent(t, s)
	if !reflect.DeepEqual(s.VariantIDs("P1"), []product.ID{"V2", "V3"}) || !s.IsProductSelected("P1") {
		t.Fatalf("unexpected state after deselecting V1: %v", s.VariantIDs("P1"))
	}

	s = s.ToggleVariant("P1", "V2").ToggleVariant("P1", "V3")
	assertConsistent(t, s)
	if s.IsProductSelected("P1") {
		t.Fatalf("expected P1 demoted")
	}
	if _, ok := s.variants["P1"]; ok {
		t.Fatalf("expected P1 entry deleted")
	}
}

func TestToggleProductReselectsEverything(t *testing.T) {
	p := newProduct("P", "a", "b")
	s := New().ToggleProduct(p).ToggleVariant("P", "a")
	s = s.ToggleProduct(p)
	if s.IsProductSelected("P") {
		t.Fatalf("toggling a selected product should clear it")
	}
	s = s.ToggleProduct(p)
	if !reflect.DeepEqual(s.VariantIDs("P"), []product.ID{"a", "b"}) {
		t.Fatalf("expected select-all, got %v", s.VariantIDs("P"))
	}
}

func TestToggleVariantPromotes(t *testing.T) {
	s := New().ToggleVariant("P", "v")
	assertConsistent(t, s)
	if !s.IsProductSelected("P") || !s.IsVariantSelected("P", "v") {
		t.Fatalf("expected promotion on first variant")
	}
}

func TestProductWithoutVariantsStaysUnselected(t *testing.T) {
	s := New().ToggleProduct(newProduct("empty"))
	assertConsistent(t, s)
	if s.IsProductSelected("empty") {
		t.Fatalf("a product without variants cannot be selected")
	}
}

func TestVariantKeyedByProduct(t *testing.T) {
	s := New().ToggleVariant("A", "shared").ToggleVariant("B", "shared")
	s = s.ToggleVariant("A", "shared")
	if s.IsProductSelected("A") || !s.IsVariantSelected("B", "shared") {
		t.Fatalf("variant ids leaked across products")
	}
}

func TestOlderSnapshotsUnaffected(t *testing.T) {
	p := newProduct("P", "a", "b")
	before := New().ToggleProduct(p)
	after := before.ToggleVariant("P", "a")
	if !before.IsVariantSelected("P", "a") || after.IsVariantSelected("P", "a") {
		t.Fatalf("toggling mutated the previous snapshot")
	}
}

func TestRandomSequencesKeepInvariant(t *testing.T) {
	products := []product.Product{
		newProduct("A", "1", "2", "3"),
		newProduct("B", "4"),
		newProduct("C", "5", "6"),
		newProduct("D"),
	}
	rnd := rand.New(rand.NewSource(42))
	s := New()
	for i := 0; i < 5000; i++ {
		p := products[rnd.Intn(len(products))]
		switch rnd.Intn(4) {
		case 0:
			s = s.ToggleProduct(p)
		case 1, 2:
			if len(p.Variants) > 0 {
				s = s.ToggleVariant(p.ID, p.Variants[rnd.Intn(len(p.Variants))].ID)
			}
		case 3:
			if rnd.Intn(10) == 0 {
				s = s.Reset()
			} else {
				s = s.Drop(p.ID)
			}
		}
		assertConsistent(t, s)
	}
}

func TestMaterializeKeepsCandidateOrder(t *testing.T) {
	candidates := []product.Product{
		newProduct("A", "1", "2", "3"),
		newProduct("B", "4"),
		newProduct("C", "5", "6"),
	}
	s := New().
		ToggleVariant("C", "6").
		ToggleProduct(candidates[0]).
		ToggleVariant("A", "2")

	got := s.Materialize(candidates)
	if len(got) != 2 || got[0].ID != "A" || got[1].ID != "C" {
		t.Fatalf("unexpected materialized products: %+v", got)
	}
	if !reflect.DeepEqual(got[0].VariantIDs(), []product.ID{"1", "3"}) {
		t.Fatalf("unexpected A variants: %v", got[0].VariantIDs())
	}
	if !reflect.DeepEqual(got[1].VariantIDs(), []product.ID{"6"}) {
		t.Fatalf("unexpected C variants: %v", got[1].VariantIDs())
	}
	if len(candidates[0].Variants) != 3 {
		t.Fatalf("materialize trimmed the candidate list in place")
	}
}

func TestDropVariant(t *testing.T) {
	s := New().ToggleVariant("P", "v")
	s = s.DropVariant("P", "other")
	if !s.IsProductSelected("P") {
		t.Fatalf("dropping an unselected variant changed state")
	}
	s = s.DropVariant("P", "v")
	assertConsistent(t, s)
	if s.IsProductSelected("P") {
		t.Fatalf("expected demotion after dropping the last variant")
	}
}
