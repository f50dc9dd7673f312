// Package cache provides an in-memory TTL cache used to avoid redundant
// filesystem syscalls for hot paths.
package cache

import (
	"sync"
	"time"
)

// DefaultMaxSize bounds a cache instance when no explicit size is given.
const DefaultMaxSize = 100

// Observer counts hits and misses for a named cache instance.
type Observer interface {
	RecordCacheHit(cache string)
	RecordCacheMiss(cache string)
}

// Cache is a size-bounded key/value cache with per-instance TTL.
// Expiry is checked lazily on read; there is no background sweeper.
// When an insert would exceed the size bound, the oldest-inserted entry
// is evicted first (insertion order, not access order).
type Cache[V any] struct {
	mu       sync.RWMutex
	items    map[string]entry[V]
	order    []string
	ttl      time.Duration
	maxSize  int
	now      func() time.Time
	name     string
	observer Observer
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// New creates a cache with the given TTL and size bound.
func New[V any](ttl time.Duration, maxSize int) *Cache[V] {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Cache[V]{
		items:   make(map[string]entry[V]),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Observe reports hit/miss counts for this cache under name. A nil
// observer disables reporting. Call it at construction time, before the
// cache is shared.
func (c *Cache[V]) Observe(name string, o Observer) *Cache[V] {
	c.name = name
	c.observer = o
	return c
}

// Get returns the cached value for key. The second return is false when
// the key is missing or the entry has outlived the TTL. Expired entries
// are not evicted on read.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		c.miss()
		return zero, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		c.miss()
		return zero, false
	}
	c.hit()
	return e.value, true
}

func (c *Cache[V]) hit() {
	if c.observer != nil {
		c.observer.RecordCacheHit(c.name)
	}
}

func (c *Cache[V]) miss() {
	if c.observer != nil {
		c.observer.RecordCacheMiss(c.name)
	}
}

// Set stores value under key, evicting the oldest-inserted entry first
// if the cache would exceed its size bound.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; exists {
		// Overwrite keeps the original insertion position.
		c.items[key] = entry[V]{value: value, storedAt: c.now()}
		return
	}

	if len(c.items) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}

	c.items[key] = entry[V]{value: value, storedAt: c.now()}
	c.order = append(c.order, key)
}

// Delete removes a single key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry[V])
	c.order = nil
}

// Len returns the number of stored entries, including any that have
// expired but not yet been overwritten.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
