package channel

import (
	"sync/atomic"
	"time"

	"github.com/mharlow/loopcast/internal/playlist"
	"github.com/mharlow/loopcast/internal/timemodel"
)

// runtimeState is the (started, epoch) pair published atomically so readers
// see either (false, zero) or (true, epoch) and never a torn combination
// (spec.md §3 "Channel Runtime State").
type runtimeState struct {
	started bool
	epoch   time.Time
}

// Channel is one broadcastable channel: its identity, its currently compiled
// program, and its runtime state.
type Channel struct {
	Slug string
	Name string

	state    atomic.Pointer[runtimeState]
	compiled atomic.Pointer[playlist.Program]
}

// New returns a Channel that has not yet started broadcasting and carries an
// empty Compiled Program.
func New(slug, name string) *Channel {
	c := &Channel{Slug: slug, Name: name}
	c.state.Store(&runtimeState{})
	c.compiled.Store(&playlist.Program{})
	return c
}

// Start transitions the channel to broadcasting, capturing epoch = now() the
// first time it is called. Subsequent calls are no-ops: epoch never updates
// once captured.
func (c *Channel) Start() {
	cur := c.state.Load()
	if cur.started {
		return
	}
	c.state.CompareAndSwap(cur, &runtimeState{started: true, epoch: timemodel.Now()})
}

// Started reports whether the channel has begun broadcasting.
func (c *Channel) Started() bool {
	return c.state.Load().started
}

// Epoch returns the instant broadcasting began and true, or the zero time
// and false if the channel has not started.
func (c *Channel) Epoch() (time.Time, bool) {
	s := c.state.Load()
	return s.epoch, s.started
}

// SetProgram atomically replaces the channel's Compiled Program. Safe to
// call concurrently with CurrentManifest.
func (c *Channel) SetProgram(p playlist.Program) {
	c.compiled.Store(&p)
}

// Program returns the channel's current Compiled Program.
func (c *Channel) Program() playlist.Program {
	return *c.compiled.Load()
}

// CurrentManifest renders the live manifest as of now, or returns
// (_, false) if the channel has not started broadcasting.
func (c *Channel) CurrentManifest(now time.Time) (string, bool) {
	s := c.state.Load()
	if !s.started {
		return "", false
	}
	offset := timemodel.Offset(now, s.epoch)
	return playlist.Render(c.Program(), offset), true
}
