package guide

import (
	"sync"
	"time"

	"github.com/mharlow/loopcast/internal/channel"
)

// refreshInterval matches spec.md §5: "Guide cache is recomputed on a
// 60-second timer and served instantly to requesters."
const refreshInterval = 60 * time.Second

// BuildFunc produces the schedule entries for one channel at a point in
// time; normally Build with a channel-specific TitleFunc bound in.
type BuildFunc func(c *channel.Channel, now time.Time) []Entry

// Cache serves pre-computed Schedule Entries per channel, recomputing them
// on a periodic timer rather than on the request path.
type Cache struct {
	pool  *channel.Pool
	build BuildFunc

	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewCache returns a Cache bound to pool, using build to compute each
// channel's entries.
func NewCache(pool *channel.Pool, build BuildFunc) *Cache {
	return &Cache{pool: pool, build: build, entries: map[string][]Entry{}}
}

// Refresh recomputes every channel's schedule entries as of now and
// publishes the result atomically: readers never observe a partially
// updated map (spec.md §9 "Guide cache").
func (c *Cache) Refresh(now time.Time) {
	next := make(map[string][]Entry)
	for _, ch := range c.pool.List() {
		next[ch.Slug] = c.build(ch, now)
	}

	c.mu.Lock()
	c.entries = next
	c.mu.Unlock()
}

// Get returns the cached schedule for slug. If the cache has never been
// populated for that slug, it computes one synchronously as a cold-start
// fallback (spec.md §5: "except as a cold-start fallback on the very first
// request").
func (c *Cache) Get(slug string, now time.Time) []Entry {
	c.mu.RLock()
	entries, ok := c.entries[slug]
	c.mu.RUnlock()
	if ok {
		return entries
	}

	ch := c.pool.Get(slug)
	if ch == nil {
		return nil
	}
	computed := c.build(ch, now)

	c.mu.Lock()
	c.entries[slug] = computed
	c.mu.Unlock()

	return computed
}

// RefreshInterval returns the period callers should drive Refresh at via
// their own time.Ticker.
func (c *Cache) RefreshInterval() time.Duration {
	return refreshInterval
}
