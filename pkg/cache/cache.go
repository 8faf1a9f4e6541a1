package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCacheMiss marks a key that is absent or already expired.
var ErrCacheMiss = errors.New("cache miss")

// Clock abstracts time so tests can drive expiration deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock used outside of tests.
func SystemClock() Clock { return systemClock{} }

type entry struct {
	value     any
	expiresAt time.Time
}

// TTLCache is an in-memory cache with per-entry TTLs. Expired entries are
// dropped lazily on read and swept periodically when Run is started. The cache
// is handed to consumers as an explicit dependency, never a package global.
type TTLCache struct {
	mu    sync.Mutex
	items map[string]entry
	clock Clock
}

// New builds an empty cache. A nil clock falls back to the system clock.
func New(clock Clock) *TTLCache {
	if clock == nil {
		clock = SystemClock()
	}
	return &TTLCache{
		items: make(map[string]entry),
		clock: clock,
	}
}

// Set stores value under key for the given TTL. A non-positive TTL stores
// nothing, which keeps zero-config callers from pinning entries forever.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry{value: value, expiresAt: c.clock.Now().Add(ttl)}
}

// Get returns the live value stored at key, or ErrCacheMiss.
func (c *TTLCache) Get(key string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !c.clock.Now().Before(item.expiresAt) {
		delete(c.items, key)
		return nil, ErrCacheMiss
	}
	return item.value, nil
}

// Delete drops the entry if present.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len reports the number of stored entries, expired ones included until swept.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Sweep drops every expired entry and reports how many were removed.
func (c *TTLCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	removed := 0
	for key, item := range c.items {
		if !now.Before(item.expiresAt) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Run sweeps on the given interval until ctx is cancelled.
func (c *TTLCache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
