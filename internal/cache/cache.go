// Package cache provides a generic in-process TTL cache.
//
// Expired entries are evicted lazily on lookup. When the cache grows past a
// size threshold, a sweep additionally drops entries that have been idle for
// longer than five times the TTL, bounding memory without a background
// goroutine.
package cache

import (
	"context"
	"sync"
	"time"
)

// sweepThreshold is the entry count above which Set triggers an idle sweep.
const sweepThreshold = 1000

// idleFactor is the multiple of the TTL after which an untouched entry is
// considered abandoned by the sweep.
const idleFactor = 5

type entry[V any] struct {
	value      V
	storedAt   time.Time
	expiresAt  time.Time
	lastAccess time.Time
}

// Cache is a thread-safe TTL cache keyed by K.
type Cache[K comparable, V any] struct {
	ttl     time.Duration
	entries map[K]entry[V]
	mu      sync.Mutex
	nowFn   func() time.Time // overridable for tests
}

// New creates a cache whose entries expire after ttl.
func New[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		ttl:     ttl,
		entries: make(map[K]entry[V]),
		nowFn:   time.Now,
	}
}

// Get returns the cached value for key if present and not expired.
// Expired entries are removed on the spot.
func (c *Cache[K, V]) Get(_ context.Context, key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	now := c.nowFn()
	if now.After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}

	e.lastAccess = now
	c.entries[key] = e
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[K, V]) Set(ctx context.Context, key K, value V) {
	c.SetAt(ctx, key, value, c.nowFn())
}

// SetAt stores value under key, recording observedAt as the value's capture
// time. A write never replaces an entry captured more recently than
// observedAt, so an out-of-order late fetch cannot clobber fresher data.
func (c *Cache[K, V]) SetAt(_ context.Context, key K, value V, observedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok && existing.storedAt.After(observedAt) {
		return
	}

	now := c.nowFn()
	c.entries[key] = entry[V]{
		value:      value,
		storedAt:   observedAt,
		expiresAt:  now.Add(c.ttl),
		lastAccess: now,
	}

	if len(c.entries) > sweepThreshold {
		c.sweepLocked(now)
	}
}

// Delete removes the entry for key, if any.
func (c *Cache[K, V]) Delete(_ context.Context, key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries, including not-yet-swept expired ones.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]entry[V])
}

func (c *Cache[K, V]) sweepLocked(now time.Time) {
	idleCutoff := now.Add(-idleFactor * c.ttl)
	for k, e := range c.entries {
		if now.After(e.expiresAt) || e.lastAccess.Before(idleCutoff) {
			delete(c.entries, k)
		}
	}
}
