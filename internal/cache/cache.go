// Package cache provides the process-lifetime memoization cache for the
// shipping engine: a mutex-guarded key/value store with per-entry TTL,
// lazy expiry on read, a periodic background sweep, substring-based
// invalidation, and hit/miss accounting.
//
// One instance is constructed at startup and injected into the shipping
// service; callers must not create independent caches that silently
// diverge. Entries are ephemeral — nothing survives the process.
//
// Keys are the caller's responsibility but must be deterministic and
// namespaced, colon-delimited per operation
// ("nearest_warehouse:seller:<id>"), so DeletePattern can target one
// operation's keys without touching another's.
package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL applies when Set is called with a non-positive TTL.
const DefaultTTL = 5 * time.Minute

// DefaultSweepInterval is how often the background sweeper evicts
// expired entries that are never re-read.
const DefaultSweepInterval = 60 * time.Second

type entry struct {
	value     any
	expiresAt time.Time
}

// Stats is a snapshot of the cache's global counters since the last
// ResetStats. HitRate is hits/(hits+misses), 0 before any access.
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Size    int     `json:"size"`
	HitRate float64 `json:"hit_rate"`
}

// Cache is a TTL key/value store safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	hits    uint64
	misses  uint64

	stop chan struct{}
	once sync.Once
}

// New creates an empty cache. Call StartSweeper to enable the periodic
// sweep and Stop to end it at process shutdown.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
}

// Get returns the value for key if present and unexpired. An expired
// entry is evicted and counted as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return e.value, true
}

// Set stores value under key for ttl. A non-positive ttl falls back to
// DefaultTTL.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Has reports whether key is present and unexpired. Expired entries are
// evicted. Does not touch the hit/miss counters.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return false
	}
	return true
}

// Delete removes key, reporting whether it was present.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// DeletePattern removes every entry whose key contains substr and
// returns the number removed. Namespaced keys make this safe to aim at
// a single operation's entries.
func (c *Cache) DeletePattern(substr string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.Contains(key, substr) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Clear removes every entry. Counters are untouched; use ResetStats.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Cleanup evicts all expired entries and returns the number removed.
// Invoked by the sweeper; exported so callers can force a sweep.
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns a snapshot of the global counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{Hits: c.hits, Misses: c.misses, Size: len(c.entries)}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// ResetStats zeroes the hit/miss counters.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits = 0
	c.misses = 0
}

// StartSweeper launches the periodic sweep goroutine. A non-positive
// interval falls back to DefaultSweepInterval.
func (c *Cache) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Cleanup()
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop ends the sweeper goroutine. Safe to call more than once.
func (c *Cache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

// GetOrSet returns the cached value for key, or invokes factory, stores
// the result for ttl, and returns it. The lock is not held across the
// factory: two concurrent misses on the same key may both compute, and
// the last write wins. A factory error is returned without caching.
func GetOrSet[T any](c *Cache, key string, ttl time.Duration, factory func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	value, err := factory()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, value, ttl)
	return value, nil
}
