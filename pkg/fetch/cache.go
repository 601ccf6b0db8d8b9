package fetch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog/log"

	"tableflip.dev/curate/pkg/product"
)

// Cache stores fetched pages.
type Cache interface {
	Get(req Request) ([]product.Product, bool)
	Put(req Request, products []product.Product) error
}

// DiskCache keeps pages on disk with diskv, laid out as
// <base>/<search>/<page>/<limit>.
type DiskCache struct {
	d   *diskv.Diskv
	ttl time.Duration
	now func() time.Time
}

type cachedPage struct {
	FetchedAt time.Time         `json:"fetched_at"`
	Products  []product.Product `json:"products"`
}

// NewDiskCache opens (or lazily creates) a cache under basePath. A ttl <= 0
// keeps pages forever.
func NewDiskCache(basePath string, ttl time.Duration) *DiskCache {
	return &DiskCache{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns a fresh cached page.
func (c *DiskCache) Get(req Request) ([]product.Product, bool) {
	key := toKey(req)
	if !c.d.Has(key) {
		return nil, false
	}
	val, err := c.d.Read(key)
	if err != nil {
		return nil, false
	}
	var page cachedPage
	if err := json.Unmarshal(val, &page); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache: dropping unreadable page")
		_ = c.d.Erase(key)
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(page.FetchedAt) > c.ttl {
		return nil, false
	}
	return page.Products, true
}

// Put stores a page.
func (c *DiskCache) Put(req Request, products []product.Product) error {
	data, err := json.Marshal(cachedPage{FetchedAt: c.now(), Products: products})
	if err != nil {
		return err
	}
	return c.d.Write(toKey(req), data)
}

// Requests lists the cached page requests, skipping keys this cache did not
// write.
func (c *DiskCache) Requests(ctx context.Context) []Request {
	var out []Request
	for key := range c.d.Keys(ctx.Done()) {
		req, err := fromKey(key)
		if err != nil {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Search != out[j].Search {
			return out[i].Search < out[j].Search
		}
		return out[i].Page < out[j].Page
	})
	return out
}

// Clear erases every cached page.
func (c *DiskCache) Clear() error {
	return c.d.EraseAll()
}

// CachedFetcher consults Cache before Next. Failures are never cached.
type CachedFetcher struct {
	Next  Fetcher
	Cache Cache
}

// Fetch implements Fetcher.
func (f *CachedFetcher) Fetch(ctx context.Context, req Request) ([]product.Product, error) {
	if f.Cache != nil {
		if products, ok := f.Cache.Get(req); ok {
			return products, nil
		}
	}
	products, err := f.Next.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if f.Cache != nil {
		if err := f.Cache.Put(req, products); err != nil {
			log.Warn().Err(err).Str("search", req.Search).Int("page", req.Page).Msg("cache: store page")
		}
	}
	return products, nil
}

// toKey makes `q<search>-<page>-<limit>`. The search is base64url encoded so
// it never contains the separator or a path character.
func toKey(req Request) string {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	page := req.Page
	if page < 0 {
		page = 0
	}
	search := "q" + base64.RawURLEncoding.EncodeToString([]byte(req.Search))
	return fmt.Sprintf("%s-%d-%d", search, page, limit)
}

func fromKey(key string) (Request, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 || !strings.HasPrefix(parts[0], "q") {
		return Request{}, fmt.Errorf("cache: bad key %q", key)
	}
	search, err := base64.RawURLEncoding.DecodeString(parts[0][1:])
	if err != nil {
		return Request{}, err
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return Request{}, err
	}
	limit, err := strconv.Atoi(parts[2])
	if err != nil {
		return Request{}, err
	}
	return Request{Search: string(search), Page: page, Limit: limit}, nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
