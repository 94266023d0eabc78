// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package duckdb

import "sync"

// ResultCache memoizes summaries by query key. Loading a snapshot clears
// it.
type ResultCache struct {
	mu     sync.Mutex
	cache  map[string][]Row
	hits   int64
	misses int64
}

// NewResultCache creates a new result cache.
func NewResultCache() *ResultCache {
	return &ResultCache{cache: make(map[string][]Row)}
}

// Get retrieves a cached summary.
func (c *ResultCache) Get(key string) ([]Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, ok := c.cache[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return rows, ok
}

// Set stores a summary in the cache.
func (c *ResultCache) Set(key string, rows []Row) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = rows
}

// Clear empties the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string][]Row)
	c.hits, c.misses = 0, 0
}

// Stats returns cache hit/miss statistics.
func (c *ResultCache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Size returns the number of cached summaries.
func (c *ResultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
