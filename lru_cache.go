// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package pivotcache

import (
	"container/list"
	"sync"
)

// lruCache implements a thread-safe LRU (Least Recently Used) cache with a
// maximum size limit. When the cache is full, the least recently used entry
// is evicted to make room for new entries.
type lruCache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	cache    map[K]*list.Element
	lruList  *list.List
}

// lruEntry represents a key-value pair in the LRU cache
type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// newLRUCache creates a new LRU cache with the specified capacity
func newLRUCache[K comparable, V any](capacity int) *lruCache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &lruCache[K, V]{
		capacity: capacity,
		cache:    make(map[K]*list.Element),
		lruList:  list.New(),
	}
}

// Load retrieves a value and marks it as most recently used.
func (c *lruCache[K, V]) Load(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lruList.MoveToFront(elem)
		return elem.Value.(*lruEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Store adds or updates a value. Returns true if an entry was evicted.
func (c *lruCache[K, V]) Store(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lruList.MoveToFront(elem)
		elem.Value.(*lruEntry[K, V]).value = value
		return false
	}
	evicted := false
	if c.lruList.Len() >= c.capacity {
		if oldest := c.lruList.Back(); oldest != nil {
			c.lruList.Remove(oldest)
			delete(c.cache, oldest.Value.(*lruEntry[K, V]).key)
			evicted = true
		}
	}
	c.cache[key] = c.lruList.PushFront(&lruEntry[K, V]{key: key, value: value})
	return evicted
}

// Clear removes all entries
func (c *lruCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[K]*list.Element)
	c.lruList = list.New()
}

// Len returns the current number of entries
func (c *lruCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lruList.Len()
}
