package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// expired reports whether the entry is past its expiration.
// A zero expiration means the entry never expires.
func (e entry[V]) expired() bool {
	return !e.expires.IsZero() && time.Now().After(e.expires)
}

// Cache is a thread-safe in-memory cache with per-cache TTL.
// Expired entries are dropped on access and swept on writes.
type Cache[V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]entry[V]
}

// New creates a cache whose entries expire after ttl.
// A ttl of zero or less disables expiration.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:   ttl,
		items: make(map[string]entry[V]),
	}
}

// Get retrieves a value from the cache.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}
	if e.expired() {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value in the cache.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.items {
		if e.expired() {
			delete(c.items, k)
		}
	}

	var exp time.Time
	if c.ttl > 0 {
		exp = time.Now().Add(c.ttl)
	}
	c.items[key] = entry[V]{value: value, expires: exp}
}

// Delete removes a value from the cache.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.items {
		if !e.expired() {
			n++
		}
	}
	return n
}
