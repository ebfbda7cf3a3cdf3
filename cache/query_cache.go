package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// QueryCache maps query fingerprints to compiled SQL text.
type QueryCache struct {
	cache *lru.Cache[uint64, string]
}

func NewQueryCache(size int) *QueryCache {
	if size <= 0 {
		size = 1024
	}
	cache, _ := lru.New[uint64, string](size)
	return &QueryCache{cache: cache}
}

func (c *QueryCache) Get(fingerprint uint64) (string, bool) {
	return c.cache.Get(fingerprint)
}

func (c *QueryCache) Set(fingerprint uint64, sql string) {
	c.cache.Add(fingerprint, sql)
}

func (c *QueryCache) Len() int {
	return c.cache.Len()
}

func (c *QueryCache) Purge() {
	c.cache.Purge()
}
