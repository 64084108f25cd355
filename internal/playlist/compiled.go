// Package playlist implements the Compiled Program and the Live-Playlist
// Synthesizer (spec.md §4.D-E): the in-memory segment timeline for a channel
// and the rolling manifest rendered from it.
package playlist

import (
	"fmt"

	"github.com/mharlow/loopcast/internal/bundle"
)

// SegmentRecord is one compiled segment: the source item it belongs to, its
// duration, the URL a client fetches it from, and its running start offset
// within the channel's loop.
type SegmentRecord struct {
	VideoIndex          int
	DurationSeconds     float64
	RelativeURL         string
	CumulativeTimestamp float64
}

// Program is the ordered vector of Segment Records for one channel: its
// length L and total duration T are the channel's program size.
type Program struct {
	Segments []SegmentRecord
	L        int
	T        float64
	Dmax     float64
}

// SourceRef identifies one source item's sealed bundle within a channel.
type SourceRef struct {
	Slug        string
	Fingerprint string
}

// Compile concatenates the sealed bundle indices of items, in order, into a
// single Program. Any item whose bundle is unreadable is skipped (spec.md
// §4.E failure semantics: the synthesizer never touches the filesystem
// itself, so unreadable bundles are dropped at compile time instead).
func Compile(store *bundle.Store, items []SourceRef) Program {
	var program Program
	cumulative := 0.0

	for videoIndex, item := range items {
		segments, _, err := store.Open(item.Slug, item.Fingerprint)
		if err != nil {
			continue
		}
		for _, seg := range segments {
			program.Segments = append(program.Segments, SegmentRecord{
				VideoIndex:          videoIndex,
				DurationSeconds:     seg.Duration,
				RelativeURL:         fmt.Sprintf("channels/%s/videos/%s/%s", item.Slug, item.Fingerprint, seg.Filename),
				CumulativeTimestamp: cumulative,
			})
			cumulative += seg.Duration
			if seg.Duration > program.Dmax {
				program.Dmax = seg.Duration
			}
		}
	}

	program.L = len(program.Segments)
	program.T = cumulative
	return program
}
