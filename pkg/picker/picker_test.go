package picker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tableflip.dev/curate/pkg/fetch"
	"tableflip.dev/curate/pkg/product"
)

func catalogOf(n int) []product.Product {
	out := make([]product.Product, 0, n)
	for i := 1; i <= n; i++ {
		id := product.ID(fmt.Sprint(i))
		out = append(out, product.Product{
			ID:    id,
			Title: fmt.Sprintf("Item %d", i),
			Variants: []product.Variant{
				{ID: id + "a", ProductID: id, Title: "A", Price: "1.00"},
				{ID: id + "b", ProductID: id, Title: "B", Price: "2.00"},
			},
		})
	}
	return out
}

func TestOpenResets(t *testing.T) {
	f := &fetch.MockFetcher{Products: catalogOf(3)}
	m := New(10).Open("row-1")
	m, err := m.NextPage(context.Background(), f)
	if err != nil {
		t.Fatalf("NextPage: %v", err)
	}
	m = m.Search("item").ToggleProduct("1")
	if m.SelectedCount() != 0 {
		t.Fatalf("search cleared candidates, toggle should be a no-op, got %d", m.SelectedCount())
	}
	m, _ = m.NextPage(context.Background(), f)
	m = m.ToggleProduct("1")
	if m.SelectedCount() != 1 {
		t.Fatalf("want 1 selected, got %d", m.SelectedCount())
	}

	m = m.Close().Open("row-2")
	if m.SelectedCount() != 0 || len(m.Candidates()) != 0 || m.Query() != "" || m.Page() != 0 || !m.HasMore() {
		t.Fatalf("Open did not reset: %+v", m)
	}
	if m.Target() != "row-2" {
		t.Fatalf("target = %q", m.Target())
	}
}

func TestPaginationStopsOnShortPage(t *testing.T) {
	f := &fetch.MockFetcher{Products: catalogOf(23)}
	m := New(10).Open("x")
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		var err error
		if m, err = m.NextPage(ctx, f); err != nil {
			t.Fatalf("page %d: %v", i, err)
		}
	}
	if got := len(m.Candidates()); got != 23 {
		t.Fatalf("want 23 candidates, got %d", got)
	}
	if m.HasMore() {
		t.Fatalf("short page should end pagination")
	}
	if _, err := m.NextPage(ctx, f); !errors.Is(err, ErrExhausted) {
		t.Fatalf("want ErrExhausted, got %v", err)
	}
}

func TestPaginationStopsOnFailure(t *testing.T) {
	boom := fetch.FetcherFunc(func(context.Context, fetch.Request) ([]product.Product, error) {
		return nil, errors.New("connection reset")
	})
	m, err := New(10).Open("x").NextPage(context.Background(), boom)
	if !errors.Is(err, fetch.ErrFetchFailed) {
		t.Fatalf("want ErrFetchFailed, got %v", err)
	}
	if m.HasMore() || m.Loading() || m.Err() == nil {
		t.Fatalf("failure should stop pagination: more=%v loading=%v err=%v", m.HasMore(), m.Loading(), m.Err())
	}
}

func TestStalePageDropped(t *testing.T) {
	m := New(10).Open("x")
	m, req, err := m.BeginFetch()
	if err != nil {
		t.Fatalf("BeginFetch: %v", err)
	}
	if _, _, err := m.BeginFetch(); !errors.Is(err, ErrBusy) {
		t.Fatalf("want ErrBusy, got %v", err)
	}

	m = m.Search("hat")
	m, err = m.ApplyPage(req, catalogOf(2), nil)
	if !errors.Is(err, ErrStalePage) {
		t.Fatalf("want ErrStalePage, got %v", err)
	}
	if len(m.Candidates()) != 0 {
		t.Fatalf("stale page leaked into candidates")
	}

	m, req, _ = m.BeginFetch()
	if req.Search != "hat" || req.Page != 0 || req.Limit != 10 {
		t.Fatalf("unexpected request %+v", req)
	}
	if m, err = m.ApplyPage(req, catalogOf(2), nil); err != nil {
		t.Fatalf("ApplyPage: %v", err)
	}
	if len(m.Candidates()) != 2 || m.Page() != 1 {
		t.Fatalf("candidates=%d page=%d", len(m.Candidates()), m.Page())
	}
}

func TestApplyPageSkipsDuplicates(t *testing.T) {
	m, req, _ := New(2).Open("x").BeginFetch()
	m, _ = m.ApplyPage(req, catalogOf(2), nil)
	m, req, _ = m.BeginFetch()
	m, _ = m.ApplyPage(req, catalogOf(3)[1:], nil)
	got := m.Candidates()
	if len(got) != 3 || got[2].ID != "3" {
		t.Fatalf("unexpected candidates %v", got)
	}
}

func TestSearchKeepsSelection(t *testing.T) {
	f := &fetch.MockFetcher{Products: catalogOf(3)}
	m, _ := New(10).Open("x").NextPage(context.Background(), f)
	m = m.ToggleVariant("2", "2b")
	m = m.Search("Item 3")
	if m.SelectedCount() != 1 || !m.Selection().IsVariantSelected("2", "2b") {
		t.Fatalf("search dropped selection")
	}
}

func TestToggleOnlyCandidates(t *testing.T) {
	f := &fetch.MockFetcher{Products: catalogOf(1)}
	m, _ := New(10).Open("x").NextPage(context.Background(), f)
	m = m.ToggleProduct("nope").ToggleVariant("1", "zz")
	if m.SelectedCount() != 0 {
		t.Fatalf("non-candidates selected")
	}
}

func TestConfirmMaterializes(t *testing.T) {
	f := &fetch.MockFetcher{Products: catalogOf(3)}
	m, _ := New(10).Open("row").NextPage(context.Background(), f)
	m = m.ToggleVariant("3", "3a").ToggleProduct("1")

	if got := m.Summary(); got != "2 products selected" {
		t.Fatalf("summary = %q", got)
	}
	m, target, picked, err := m.Confirm()
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if m.IsOpen() {
		t.Fatalf("confirm should close")
	}
	if target != "row" {
		t.Fatalf("target = %q", target)
	}
	if len(picked) != 2 || picked[0].ID != "1" || picked[1].ID != "3" {
		t.Fatalf("want candidate order [1 3], got %v", picked)
	}
	if len(picked[0].Variants) != 2 || len(picked[1].Variants) != 1 || picked[1].Variants[0].ID != "3a" {
		t.Fatalf("variants not trimmed: %+v", picked)
	}
	if _, _, _, err := m.Confirm(); !errors.Is(err, ErrClosed) {
		t.Fatalf("want ErrClosed, got %v", err)
	}
}

func TestDrop(t *testing.T) {
	f := &fetch.MockFetcher{Products: catalogOf(2)}
	m, _ := New(10).Open("x").NextPage(context.Background(), f)
	m = m.ToggleProduct("1").ToggleProduct("2")
	m = m.DropProduct("1").DropVariant("2", "2a")
	if m.Selection().IsProductSelected("1") {
		t.Fatalf("1 still selected")
	}
	if m.Selection().IsVariantSelected("2", "2a") || !m.Selection().IsVariantSelected("2", "2b") {
		t.Fatalf("unexpected variant selection %v", m.Selection().Variants())
	}
	if m.Summary() != "1 product selected" {
		t.Fatalf("summary = %q", m.Summary())
	}
}
