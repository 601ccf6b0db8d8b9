package ordered

import (
	"errors"
	"reflect"
	"testing"
)

type item struct {
	id    string
	label string
}

func (i item) Key() string { return i.id }

func items(ids ...string) []item {
	out := make([]item, len(ids))
	for i, id := range ids {
		out[i] = item{id: id}
	}
	return out
}

func ids(seq []item) []string {
	return Keys[item, string](seq)
}

func TestMoveByIDUsesPostRemovalIndex(t *testing.T) {
	seq := items("a", "b", "c", "d")

	got, err := MoveByID(seq, "a", 2)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if want := []string{"b", "c", "a", "d"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("moving forward: got %v want %v", ids(got), want)
	}

	got, err = MoveByID(seq, "d", 0)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if want := []string{"d", "a", "b", "c"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("moving backward: got %v want %v", ids(got), want)
	}

	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(ids(seq), want) {
		t.Fatalf("input mutated: %v", ids(seq))
	}
}

func TestMoveByIDClampsAndNoops(t *testing.T) {
	seq := items("a", "b", "c")
	got, _ := MoveByID(seq, "a", 99)
	if want := []string{"b", "c", "a"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("clamp high: got %v", ids(got))
	}
	got, _ = MoveByID(seq, "c", -4)
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("clamp low: got %v", ids(got))
	}
	got, _ = MoveByID(seq, "b", 1)
	if !reflect.DeepEqual(got, seq) {
		t.Fatalf("expected equal sequence for unchanged position, got %v", ids(got))
	}
}

func TestMoveByIDSwappedReturnsToOriginal(t *testing.T) {
	seq := items("a", "b", "c", "d", "e")
	for from := 0; from < len(seq); from++ {
		for to := 0; to < len(seq); to++ {
			key := seq[from].id
			moved, err := MoveByID(seq, key, to)
			if err != nil {
				t.Fatalf("move: %v", err)
			}
			back, err := MoveByID(moved, key, from)
			if err != nil {
				t.Fatalf("move back: %v", err)
			}
			if !reflect.DeepEqual(ids(back), ids(seq)) {
				t.Fatalf("from %d to %d and back: got %v", from, to, ids(back))
			}
		}
	}
}

func TestMoveByIDNotFound(t *testing.T) {
	if _, err := MoveByID(items("a"), "z", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertReplacing(t *testing.T) {
	seq := items("a", "p", "c")

	got, err := InsertReplacing(seq, "p", item{id: "x"}, item{id: "y"})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if want := []string{"a", "x", "y", "c"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("got %v want %v", ids(got), want)
	}

	got, err = InsertReplacing(seq, "p")
	if err != nil {
		t.Fatalf("replace with nothing: %v", err)
	}
	if want := []string{"a", "c"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("got %v want %v", ids(got), want)
	}

	if _, err := InsertReplacing(seq, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveUpsertInsertAt(t *testing.T) {
	seq := items("a", "b", "c")

	got, err := RemoveByID(seq, "b")
	if err != nil || !reflect.DeepEqual(ids(got), []string{"a", "c"}) {
		t.Fatalf("remove: %v %v", ids(got), err)
	}

	up := UpsertByID[item, string](seq, item{id: "b", label: "new"})
	if up[1].label != "new" || len(up) != 3 || seq[1].label != "" {
		t.Fatalf("upsert existing misbehaved: %+v", up)
	}
	up = UpsertByID[item, string](seq, item{id: "d"})
	if !reflect.DeepEqual(ids(up), []string{"a", "b", "c", "d"}) {
		t.Fatalf("upsert append: %v", ids(up))
	}

	ins := InsertAt(seq, 1, item{id: "x"})
	if !reflect.DeepEqual(ids(ins), []string{"a", "x", "b", "c"}) {
		t.Fatalf("insert at: %v", ids(ins))
	}
}
