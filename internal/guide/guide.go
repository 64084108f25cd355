// Package guide implements the Program Guide Builder (spec.md §4.G): it
// projects a channel's Compiled Program onto the programming day as a
// sequence of human-readable Schedule Entries.
package guide

import (
	"time"

	"github.com/mharlow/loopcast/internal/playlist"
	"github.com/mharlow/loopcast/internal/timemodel"
)

// Entry is one Schedule Entry: derived, never persisted.
type Entry struct {
	Title           string
	Start           time.Time
	End             time.Time
	DurationSeconds float64
	IsCurrent       bool
}

const mergeThreshold = 20 * time.Minute

// show is one maximal same-videoIndex run within the Compiled Program.
type show struct {
	videoIndex int
	startSec   float64
	durSec     float64
}

// groupShows walks the Compiled Program emitting one show per maximal
// same-videoIndex run (spec.md §4.G step 1).
func groupShows(program playlist.Program) []show {
	var shows []show
	for _, seg := range program.Segments {
		if len(shows) > 0 && shows[len(shows)-1].videoIndex == seg.VideoIndex {
			shows[len(shows)-1].durSec += seg.DurationSeconds
			continue
		}
		shows = append(shows, show{
			videoIndex: seg.VideoIndex,
			startSec:   seg.CumulativeTimestamp,
			durSec:     seg.DurationSeconds,
		})
	}
	return shows
}

// TitleFunc resolves a videoIndex to a display title.
type TitleFunc func(videoIndex int) string

// Build derives the schedule entries covering [previous3am(now), next3am(now))
// for a channel whose Compiled Program is program and whose broadcast began
// at epoch, as observed at wall-clock instant now.
func Build(program playlist.Program, epoch time.Time, now time.Time, titleFor TitleFunc) []Entry {
	if program.L == 0 || program.T <= 0 {
		return nil
	}

	shows := groupShows(program)

	offset := timemodel.Offset(now, epoch)
	phase := timemodel.Phase(offset, program.T)
	loopStart := now.Add(-time.Duration(phase * float64(time.Second)))

	startBoundary := timemodel.Previous3am(now)
	endBoundary := timemodel.Next3am(now)
	loopDuration := time.Duration(program.T * float64(time.Second))

	loopStartAt := func(n int) time.Time {
		return loopStart.Add(time.Duration(n) * loopDuration)
	}

	n := 0
	for !loopStartAt(n).Before(startBoundary) {
		n--
	}

	var entries []Entry
	for {
		ls := loopStartAt(n)
		if !ls.Before(endBoundary) {
			break
		}
		for _, s := range shows {
			showStart := ls.Add(time.Duration(s.startSec * float64(time.Second)))
			showEnd := showStart.Add(time.Duration(s.durSec * float64(time.Second)))
			if showEnd.After(startBoundary) && showStart.Before(endBoundary) {
				entries = append(entries, Entry{
					Title:           titleFor(s.videoIndex),
					Start:           showStart,
					End:             showEnd,
					DurationSeconds: s.durSec,
					IsCurrent:       isCurrent(showStart, showEnd, now),
				})
			}
		}
		n++
	}

	return merge(entries)
}

func isCurrent(start, end, now time.Time) bool {
	return !now.Before(start) && now.Before(end)
}

// merge collapses runs of consecutive entries that share a title and are
// each shorter than the merge threshold (spec.md §4.G step 5).
func merge(entries []Entry) []Entry {
	if len(entries) == 0 {
		return entries
	}

	merged := []Entry{entries[0]}
	prev := entries[0]
	for _, e := range entries[1:] {
		last := &merged[len(merged)-1]
		prevDur := time.Duration(prev.DurationSeconds * float64(time.Second))
		curDur := time.Duration(e.DurationSeconds * float64(time.Second))
		if e.Title == last.Title && prevDur < mergeThreshold && curDur < mergeThreshold {
			last.End = e.End
			last.DurationSeconds = e.End.Sub(last.Start).Seconds()
			last.IsCurrent = last.IsCurrent || e.IsCurrent
			prev = e
			continue
		}
		merged = append(merged, e)
		prev = e
	}
	return merged
}
