// Package cache holds the time-boxed suggestion cache.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
)

// DefaultSuggestionTTL is how long generated suggestions are served.
const DefaultSuggestionTTL = 24 * time.Hour

const flightKey = "suggestions"

// LoadFunc produces fresh suggestions on a cache miss.
type LoadFunc func(ctx context.Context) ([]domain.Suggestion, error)

// SuggestionCache is a single-entry cache: one value, one timestamp.
// An entry is served while now - timestamp < ttl and it holds at least one
// suggestion. Concurrent misses share a single load.
type SuggestionCache struct {
	mu         sync.Mutex
	data       []domain.Suggestion
	timestamp  time.Time
	generation uint64

	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group
}

// Option configures a SuggestionCache.
type Option func(*SuggestionCache)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(c *SuggestionCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewSuggestionCache builds an empty cache. A non-positive ttl selects
// DefaultSuggestionTTL.
func NewSuggestionCache(ttl time.Duration, opts ...Option) *SuggestionCache {
	if ttl <= 0 {
		ttl = DefaultSuggestionTTL
	}
	c := &SuggestionCache{
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the cached suggestions when the entry is still valid.
func (c *SuggestionCache) Get() ([]domain.Suggestion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked()
}

func (c *SuggestionCache) getLocked() ([]domain.Suggestion, bool) {
	if len(c.data) == 0 || c.now().Sub(c.timestamp) >= c.ttl {
		return nil, false
	}
	return copySuggestions(c.data), true
}

// Populate replaces the entry and stamps it with the current time.
func (c *SuggestionCache) Populate(data []domain.Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = copySuggestions(data)
	c.timestamp = c.now()
}

// Invalidate clears the entry. Loads already in flight will not repopulate it.
func (c *SuggestionCache) Invalidate() {
	c.mu.Lock()
	c.data = nil
	c.timestamp = time.Time{}
	c.generation++
	c.mu.Unlock()

	c.group.Forget(flightKey)
}

// Timestamp returns when the entry was last populated (zero when empty).
func (c *SuggestionCache) Timestamp() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timestamp
}

// GetOrLoad serves the cached entry or runs load once for all concurrent
// callers. The load runs detached from the first caller's cancellation so
// one impatient client does not fail the others.
func (c *SuggestionCache) GetOrLoad(ctx context.Context, load LoadFunc) ([]domain.Suggestion, error) {
	if data, ok := c.Get(); ok {
		return data, nil
	}

	ch := c.group.DoChan(flightKey, func() (any, error) {
		c.mu.Lock()
		if data, ok := c.getLocked(); ok {
			c.mu.Unlock()
			return data, nil
		}
		gen := c.generation
		c.mu.Unlock()

		data, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if gen == c.generation {
			c.data = copySuggestions(data)
			c.timestamp = c.now()
		}
		c.mu.Unlock()
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return copySuggestions(res.Val.([]domain.Suggestion)), nil
	}
}

func copySuggestions(in []domain.Suggestion) []domain.Suggestion {
	out := make([]domain.Suggestion, len(in))
	copy(out, in)
	return out
}
