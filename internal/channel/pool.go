package channel

import "sync/atomic"

// Pool is the explicitly constructed set of live Channels, keyed by slug.
// spec.md §9 calls out the source's ambient Channel Pool singleton and asks
// for an explicitly constructed service instead; Pool is that service,
// passed by reference into the request handlers and the watcher.
type Pool struct {
	channels atomic.Pointer[map[string]*Channel]
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	p := &Pool{}
	empty := map[string]*Channel{}
	p.channels.Store(&empty)
	return p
}

// Get returns the channel for slug, or nil if no such channel exists.
func (p *Pool) Get(slug string) *Channel {
	return (*p.channels.Load())[slug]
}

// List returns a snapshot slice of all channels currently in the pool.
func (p *Pool) List() []*Channel {
	m := *p.channels.Load()
	out := make([]*Channel, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

// Replace atomically swaps in a brand new channel set. Readers never observe
// a partially built set (spec.md §5 "Definitions reload").
func (p *Pool) Replace(next map[string]*Channel) {
	p.channels.Store(&next)
}
