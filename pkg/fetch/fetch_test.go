package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tableflip.dev/curate/pkg/product"
)

func TestClientFetchDecodesPage(t *testing.T) {
	var gotKey, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotQuery = r.URL.RawQuery
		if r.URL.Path != "/task/products/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":77,"title":"Towel","variants":[{"id":1,"product_id":77,"title":"XS","price":"49"}],"image":{"id":266,"product_id":77,"src":"x.jpg"}}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret")
	products, err := c.Fetch(context.Background(), Request{Search: "Hat", Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotKey != "secret" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if gotQuery != "limit=10&page=2&search=Hat" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if len(products) != 1 || products[0].ID != "77" || products[0].Variants[0].ID != "1" || products[0].Image.Src != "x.jpg" {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestClientFetchFailures(t *testing.T) {
	status := http.StatusInternalServerError
	body := `{}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	if _, err := c.Fetch(context.Background(), Request{}); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed for 500, got %v", err)
	}

	status, body = http.StatusOK, `{"not":"a list"}`
	if _, err := c.Fetch(context.Background(), Request{}); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed for bad body, got %v", err)
	}

	body = `null`
	products, err := c.Fetch(context.Background(), Request{})
	if err != nil || len(products) != 0 {
		t.Fatalf("expected empty page for null body, got %v %v", products, err)
	}
}

func TestMockFetcherPaginatesAndSearches(t *testing.T) {
	m := NewMockFetcher()
	page, err := m.Fetch(context.Background(), Request{Page: 0, Limit: 1})
	if err != nil || len(page) != 1 || page[0].ID != "77" {
		t.Fatalf("unexpected first page: %v %v", page, err)
	}
	page, _ = m.Fetch(context.Background(), Request{Page: 1, Limit: 1})
	if len(page) != 1 || page[0].ID != "80" {
		t.Fatalf("unexpected second page: %v", page)
	}
	page, _ = m.Fetch(context.Background(), Request{Page: 2, Limit: 1})
	if len(page) != 0 {
		t.Fatalf("expected empty page past the end, got %v", page)
	}
	page, _ = m.Fetch(context.Background(), Request{Search: "terrarium"})
	if len(page) != 1 || page[0].ID != "80" {
		t.Fatalf("unexpected search result: %v", page)
	}
	if !(Request{Limit: 10}).IsLastPage(len(page)) {
		t.Fatalf("expected a short page to be the last")
	}
}

type countingFetcher struct {
	calls int
	err   error
}

func (c *countingFetcher) Fetch(_ context.Context, req Request) ([]product.Product, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []product.Product{{ID: product.ID("p"), Title: req.Search}}, nil
}

func TestCachedFetcherUsesDiskCache(t *testing.T) {
	cache := NewDiskCache(t.TempDir(), time.Hour)
	next := &countingFetcher{}
	f := &CachedFetcher{Next: next, Cache: cache}
	req := Request{Search: "a/b-c", Page: 0, Limit: 10}

	for i := 0; i < 2; i++ {
		products, err := f.Fetch(context.Background(), req)
		if err != nil || len(products) != 1 || products[0].Title != "a/b-c" {
			t.Fatalf("fetch %d: %v %v", i, products, err)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", next.calls)
	}

	reqs := cache.Requests(context.Background())
	if len(reqs) != 1 || reqs[0] != req {
		t.Fatalf("unexpected cached requests: %+v", reqs)
	}

	cache.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, ok := cache.Get(req); ok {
		t.Fatalf("expected expired page to miss")
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if reqs := cache.Requests(context.Background()); len(reqs) != 0 {
		t.Fatalf("expected empty cache, got %+v", reqs)
	}
}

func TestCachedFetcherDoesNotCacheFailures(t *testing.T) {
	cache := NewDiskCache(t.TempDir(), 0)
	next := &countingFetcher{err: ErrFetchFailed}
	f := &CachedFetcher{Next: next, Cache: cache}
	if _, err := f.Fetch(context.Background(), Request{}); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected failure, got %v", err)
	}
	if _, ok := cache.Get(Request{}); ok {
		t.Fatalf("failure was cached")
	}
}
