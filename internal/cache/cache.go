package cache

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// URLCache keeps last-known-good attachment URLs for the image redirect
// endpoints. Entries expire by TTL only: upstream attachment URLs are signed
// and go stale, so a short lifetime is the whole point. Cardinality is
// bounded by the upstream record/attachment count, hence no size limit.
type URLCache struct {
	lru *expirable.LRU[string, string]
}

func NewURLCache(ttl time.Duration) *URLCache {
	return &URLCache{
		lru: expirable.NewLRU[string, string](0, nil, ttl),
	}
}

// Key builds the cache key for one attachment slot: source field kind plus
// record ID plus index within the field's attachment array.
func Key(kind string, recordID string, index int) string {
	return fmt.Sprintf("%s:%s:%d", kind, recordID, index)
}

func (c *URLCache) Get(key string) (string, bool) {
	return c.lru.Get(key)
}

func (c *URLCache) Put(key string, url string) {
	c.lru.Add(key, url)
}
