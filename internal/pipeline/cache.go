package pipeline

import (
	"slices"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/sells-group/market-research-cli/internal/model"
)

// ParseCache maps links to parsed pages for the lifetime of one pipeline
// run. It is safe for concurrent use.
type ParseCache struct {
	c *cache.Cache
}

// NewParseCache creates an empty cache whose entries expire after ttl. A
// non-positive ttl keeps entries until Flush.
func NewParseCache(ttl time.Duration) *ParseCache {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	// No janitor: the cache is dropped with its run, and Get already ignores
	// expired entries.
	return &ParseCache{c: cache.New(ttl, 0)}
}

// Get returns a copy of the cached page for link.
func (pc *ParseCache) Get(link model.Link) (model.ParsedPage, bool) {
	v, ok := pc.c.Get(link)
	if !ok {
		return model.ParsedPage{}, false
	}
	page, ok := v.(model.ParsedPage)
	if !ok {
		return model.ParsedPage{}, false
	}
	page.Quotes = slices.Clone(page.Quotes)
	return page, true
}

// Set stores page for link using the default expiration.
func (pc *ParseCache) Set(link model.Link, page model.ParsedPage) {
	page.Quotes = slices.Clone(page.Quotes)
	pc.c.SetDefault(link, page)
}

// Len returns the number of cached entries, including expired ones not yet
// evicted.
func (pc *ParseCache) Len() int {
	return pc.c.ItemCount()
}

// Flush discards every entry.
func (pc *ParseCache) Flush() {
	pc.c.Flush()
}
