package schema

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/queryloom/queryloom/internal/observability"
)

const DefaultTTL = 5 * time.Minute

type CacheOption func(*Cache)

// WithClock replaces the cache's time source. Tests use it to control expiry.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// Cache serves the most recent snapshot until it ages past the TTL, then
// rebuilds it from the source. A failed rebuild propagates to the caller;
// the cache never falls back to a stale snapshot.
type Cache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	snapshot  *Snapshot
	fetchedAt time.Time
}

func NewCache(source Source, ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Get(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return *c.snapshot, nil
	}

	snapshot, err := c.source.Snapshot(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("rebuild schema snapshot: %w", err)
	}
	c.snapshot = &snapshot
	c.fetchedAt = c.now()
	observability.ObserveSchemaRefresh()
	return snapshot, nil
}

// Invalidate drops the cached snapshot so the next Get rebuilds it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
}
