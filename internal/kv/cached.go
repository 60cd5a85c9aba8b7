package kv

import (
	"context"
	"sync"
	"time"

	"lifedeck/internal/cache"
)

type cachedSlot struct {
	value []byte
	ok    bool
}

// Cached is a read-through cache in front of another Store. Writes go
// straight to the inner store and invalidate the cached slot. A miss only
// fills the cache when no write to the key started or finished while the
// inner read was in flight.
type Cached struct {
	inner Store
	slots *cache.LRUCache[cachedSlot]

	mu   sync.Mutex
	gens map[string]uint64
}

var _ Store = (*Cached)(nil)

// NewCached wraps inner with an LRU cache of at most size slots.
func NewCached(inner Store, size int, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		slots: cache.NewLRUCache[cachedSlot](size, ttl),
		gens:  make(map[string]uint64),
	}
}

// Cleaner exposes the cache so a cache.Manager can expire entries.
func (c *Cached) Cleaner() cache.Cleaner {
	return c.slots
}

// Stats returns cache counters.
func (c *Cached) Stats() cache.Stats {
	return c.slots.Stats()
}

func (c *Cached) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s, hit := c.slots.Get(key); hit {
		return Clone(s.value), s.ok, nil
	}

	c.mu.Lock()
	gen := c.gens[key]
	c.mu.Unlock()

	value, ok, err := c.inner.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	if c.gens[key] == gen {
		c.slots.Set(key, cachedSlot{value: Clone(value), ok: ok})
	}
	c.mu.Unlock()
	return value, ok, nil
}

func (c *Cached) Set(ctx context.Context, key string, value []byte) error {
	c.invalidate(key)
	defer c.invalidate(key)
	return c.inner.Set(ctx, key, value)
}

func (c *Cached) Delete(ctx context.Context, key string) error {
	c.invalidate(key)
	defer c.invalidate(key)
	return c.inner.Delete(ctx, key)
}

// invalidate drops the cached slot and bumps its generation so reads that
// began before the bump cannot fill the cache.
func (c *Cached) invalidate(key string) {
	c.mu.Lock()
	c.gens[key]++
	c.slots.Delete(key)
	c.mu.Unlock()
}

func (c *Cached) Keys(ctx context.Context) ([]string, error) {
	return c.inner.Keys(ctx)
}
