// Package cache decorates the pipeline with a best-effort TTL cache of
// recent results.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"nextbar/internal/pipeline"
)

// Cache wraps a pipeline.Runner, serving repeat requests for the same
// ticker from memory while the entry is fresh. One Cache instance is bound
// to one pipeline configuration, so the lookback window is part of the key
// implicitly.
//
// Expiry uses time.Since on the stored time.Time, which compares monotonic
// clock readings and is immune to wall-clock jumps. Errors are never cached,
// and a run abandoned by cancellation stores nothing.
type Cache struct {
	next pipeline.Runner
	ttl  time.Duration

	mu      sync.Mutex
	entries map[string]entry

	since func(time.Time) time.Duration // test seam
}

type entry struct {
	res      *pipeline.Result
	storedAt time.Time
}

// Wrap decorates next with a TTL cache. A non-positive ttl disables
// caching: Run passes straight through.
func Wrap(next pipeline.Runner, ttl time.Duration) *Cache {
	return &Cache{
		next:    next,
		ttl:     ttl,
		entries: make(map[string]entry),
		since:   time.Since,
	}
}

// Run serves from cache when fresh, otherwise delegates and stores the
// successful result.
func (c *Cache) Run(ctx context.Context, ticker string) (*pipeline.Result, error) {
	if c.ttl <= 0 {
		return c.next.Run(ctx, ticker)
	}

	// The pipeline normalizes the ticker the same way, so "aapl" and
	// "AAPL" must share one entry.
	key := strings.ToUpper(strings.TrimSpace(ticker))

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if c.since(e.storedAt) < c.ttl {
			c.mu.Unlock()
			return e.res, nil
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	res, err := c.next.Run(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		// Partial or raced result after cancellation: discard, don't cache.
		return nil, ctx.Err()
	}

	c.mu.Lock()
	c.entries[key] = entry{res: res, storedAt: time.Now()}
	c.sweepLocked()
	c.mu.Unlock()
	return res, nil
}

// sweepLocked drops expired entries. Called with mu held on every store so
// the map stays bounded by the distinct tickers seen within one TTL.
func (c *Cache) sweepLocked() {
	for k, e := range c.entries {
		if c.since(e.storedAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of live entries, for tests and debugging.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
