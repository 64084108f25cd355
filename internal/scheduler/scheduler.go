// Package scheduler implements the Pre-Generation Scheduler (spec.md §4.C):
// a round-robin, strictly serial transcode queue spanning every channel.
package scheduler

import (
	"context"
	"log"
	"sync"

	"github.com/mharlow/loopcast/internal/bundle"
	"github.com/mharlow/loopcast/internal/fingerprint"
	"github.com/mharlow/loopcast/internal/metrics"
	"github.com/mharlow/loopcast/internal/transcode"
)

// Transcoder is the narrow interface the scheduler drives; transcode.Worker
// satisfies it.
type Transcoder interface {
	Transcode(ctx context.Context, sourcePath, slug string) (transcode.Result, error)
}

// ChannelItems is one channel's ordered Source Item paths, as supplied at
// Load time.
type ChannelItems struct {
	Slug  string
	Paths []string
}

// item is one flattened unit of work.
type item struct {
	slug string
	path string
}

// Progress is the scheduler's externally visible state.
type Progress struct {
	CurrentIndex    int
	TotalVideos     int
	IsGenerating    bool
	PercentComplete float64
}

// Scheduler maintains the flattened work queue and drives the Transcoder
// strictly serially: only one external transcoder process runs at any time
// across the whole system.
type Scheduler struct {
	store   *bundle.Store
	work    Transcoder
	onBuilt func(slug string)

	mu           sync.Mutex
	flat         []item
	currentIndex int
	running      bool
}

// New returns a Scheduler backed by store (used to skip already-complete
// bundles) and work (the Transcode Worker).
func New(store *bundle.Store, work Transcoder) *Scheduler {
	return &Scheduler{store: store, work: work}
}

// OnBundleComplete registers a callback invoked after each successful
// transcode, with the slug of the channel whose bundle just completed. The
// engine uses this to recompile that channel's Compiled Program so a newly
// completed bundle becomes playable without waiting for the next
// definitions reload.
func (s *Scheduler) OnBundleComplete(fn func(slug string)) {
	s.mu.Lock()
	s.onBuilt = fn
	s.mu.Unlock()
}

// Load rebuilds the flattened queue from channels, in the order given,
// filtering out source items whose bundle is already complete. It resets
// progress to the start of the new queue.
func (s *Scheduler) Load(channels []ChannelItems) {
	subqueues := make([][]item, len(channels))
	for i, ch := range channels {
		for _, path := range ch.Paths {
			fp := fingerprint.Of(path)
			if s.store.Exists(ch.Slug, fp) == bundle.Complete {
				continue
			}
			subqueues[i] = append(subqueues[i], item{slug: ch.Slug, path: path})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.flat = buildFlat(subqueues)
	s.currentIndex = 0
}

// buildFlat interleaves per-channel FIFO sub-queues by repeatedly taking the
// head of each non-empty sub-queue, in the order the channels were added
// (spec.md §4.C).
func buildFlat(subqueues [][]item) []item {
	var flat []item
	for {
		progressed := false
		for i := range subqueues {
			if len(subqueues[i]) == 0 {
				continue
			}
			flat = append(flat, subqueues[i][0])
			subqueues[i] = subqueues[i][1:]
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return flat
}

// Run processes the flattened queue sequentially via the Transcoder. It is
// not reentrant: a concurrent call returns immediately without doing work.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	flat := s.flat
	s.mu.Unlock()
	metrics.SchedulerGenerating.Set(1)

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		metrics.SchedulerGenerating.Set(0)
	}()

	for i, it := range flat {
		result, err := s.work.Transcode(ctx, it.path, it.slug)
		switch {
		case err != nil:
			log.Printf("scheduler: transcode error for %s (%s): %v", it.path, it.slug, err)
		case result.Status == transcode.StatusFailed:
			metrics.TranscodeFailures.WithLabelValues(it.slug).Inc()
			log.Printf("scheduler: transcode failed for %s (%s): exit=%d tail=%q", it.path, it.slug, result.ExitCode, result.Tail)
		case result.Status == transcode.StatusComplete:
			metrics.TranscodeDuration.WithLabelValues(it.slug).Observe(result.Elapsed.Seconds())
			s.mu.Lock()
			onBuilt := s.onBuilt
			s.mu.Unlock()
			if onBuilt != nil {
				onBuilt(it.slug)
			}
		}

		s.mu.Lock()
		s.currentIndex = i + 1
		total := len(s.flat)
		s.mu.Unlock()
		if total > 0 {
			metrics.SchedulerPercentComplete.Set(float64(i+1) / float64(total) * 100)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// Progress returns a snapshot of the scheduler's current state.
func (s *Scheduler) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.flat)
	pct := 0.0
	if total > 0 {
		pct = float64(s.currentIndex) / float64(total) * 100
	}
	return Progress{
		CurrentIndex:    s.currentIndex,
		TotalVideos:     total,
		IsGenerating:    s.running,
		PercentComplete: pct,
	}
}
