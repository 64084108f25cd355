// Package engine wires the Channel Definitions Watcher's output to the
// Channel Pool and the Pre-Generation Scheduler: it is the dataflow spec.md
// §2 describes as "Definitions Watcher -> Channel Program -> Pre-Generation
// Scheduler -> Transcode Worker -> Segment Bundle Store."
package engine

import (
	"log"
	"sync"
	"time"

	"github.com/mharlow/loopcast/internal/bundle"
	"github.com/mharlow/loopcast/internal/channel"
	"github.com/mharlow/loopcast/internal/fingerprint"
	"github.com/mharlow/loopcast/internal/guide"
	"github.com/mharlow/loopcast/internal/playlist"
	"github.com/mharlow/loopcast/internal/scheduler"
)

// Engine owns the channel pool, the scheduler queue, and the per-channel
// bookkeeping needed to derive program-guide titles.
type Engine struct {
	store *bundle.Store
	pool  *channel.Pool
	sched *scheduler.Scheduler

	mu    sync.RWMutex
	paths map[string][]string // slug -> ordered source paths (BuildProgram's queue)
	roots map[string][]string // slug -> configured root paths
}

// New returns an Engine bound to store, pool, and sched.
func New(store *bundle.Store, pool *channel.Pool, sched *scheduler.Scheduler) *Engine {
	return &Engine{
		store: store,
		pool:  pool,
		sched: sched,
		paths: map[string][]string{},
		roots: map[string][]string{},
	}
}

// Rebuild reconstructs every Channel Program from defs, recompiles each
// channel's Compiled Program from whatever bundles are already complete,
// starts broadcasting any channel with at least one complete bundle, and
// reloads the Pre-Generation Scheduler's queue. The new channel set is
// published atomically; readers never see a partially built set (spec.md §5
// "Definitions reload").
func (e *Engine) Rebuild(defs []channel.Definition) {
	newChannels := make(map[string]*channel.Channel, len(defs))
	newPaths := make(map[string][]string, len(defs))
	newRoots := make(map[string][]string, len(defs))
	var items []scheduler.ChannelItems

	for _, def := range defs {
		program := channel.BuildProgram(def, channel.SupportedExtensions)
		if len(program.Queue) == 0 {
			log.Printf("engine: channel %q has no playable source items", def.Slug)
		}

		ch := e.pool.Get(def.Slug)
		if ch == nil {
			ch = channel.New(def.Slug, def.Name)
		}

		refs := make([]playlist.SourceRef, len(program.Queue))
		for i, p := range program.Queue {
			refs[i] = playlist.SourceRef{Slug: def.Slug, Fingerprint: fingerprint.Of(p)}
		}
		compiled := playlist.Compile(e.store, refs)
		ch.SetProgram(compiled)
		if compiled.L > 0 {
			ch.Start()
		}

		newChannels[def.Slug] = ch
		newPaths[def.Slug] = program.Queue
		newRoots[def.Slug] = def.Paths
		items = append(items, scheduler.ChannelItems{Slug: def.Slug, Paths: program.Queue})
	}

	e.pool.Replace(newChannels)

	e.mu.Lock()
	e.paths = newPaths
	e.roots = newRoots
	e.mu.Unlock()

	e.sched.Load(items)
}

// RecompileChannel recompiles one channel's Compiled Program from its
// current source-item paths, picking up any bundle that has completed since
// the last compile. Called after each scheduler transcode completes.
func (e *Engine) RecompileChannel(slug string) {
	ch := e.pool.Get(slug)
	if ch == nil {
		return
	}

	e.mu.RLock()
	paths := e.paths[slug]
	e.mu.RUnlock()

	refs := make([]playlist.SourceRef, len(paths))
	for i, p := range paths {
		refs[i] = playlist.SourceRef{Slug: slug, Fingerprint: fingerprint.Of(p)}
	}
	compiled := playlist.Compile(e.store, refs)
	ch.SetProgram(compiled)
	if compiled.L > 0 {
		ch.Start()
	}
}

// GuideBuildFunc returns the closure guide.Cache uses to derive a channel's
// schedule entries, resolving titles from this engine's recorded paths and
// root configuration.
func (e *Engine) GuideBuildFunc() guide.BuildFunc {
	return func(c *channel.Channel, now time.Time) []guide.Entry {
		epoch, started := c.Epoch()
		if !started {
			return nil
		}

		e.mu.RLock()
		paths := e.paths[c.Slug]
		roots := e.roots[c.Slug]
		e.mu.RUnlock()

		manifest, err := e.store.LoadManifest(c.Slug)
		if err != nil {
			log.Printf("engine: load manifest for %q: %v", c.Slug, err)
			manifest = bundle.Manifest{}
		}

		titleFor := func(videoIndex int) string {
			if videoIndex < 0 || videoIndex >= len(paths) {
				return ""
			}
			// spec.md §4.G step 4: the current source path is read from the
			// per-channel Manifest when present, otherwise from the queue.
			path := paths[videoIndex]
			if entry, ok := manifest[fingerprint.Of(path)]; ok {
				path = entry.OriginalPath
			}
			return guide.DeriveTitle(roots, path)
		}
		return guide.Build(c.Program(), epoch, now, titleFor)
	}
}
