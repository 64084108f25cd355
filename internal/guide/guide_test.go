package guide

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mharlow/loopcast/internal/playlist"
)

func segRec(videoIndex int, duration, cumulative float64) playlist.SegmentRecord {
	return playlist.SegmentRecord{VideoIndex: videoIndex, DurationSeconds: duration, CumulativeTimestamp: cumulative, RelativeURL: "u"}
}

func TestDeriveTitleMatchesConfiguredRoot(t *testing.T) {
	title := DeriveTitle([]string{"/media/news", "/media/sports"}, "/media/sports/game1.mp4")
	assert.Equal(t, "sports", title)
}

func TestDeriveTitleFallsBackToParentBasename(t *testing.T) {
	title := DeriveTitle([]string{"/media/news"}, "/other/show/ep1.mp4")
	assert.Equal(t, "show", title)
}

func TestGroupShowsCollapsesConsecutiveSameVideoIndex(t *testing.T) {
	program := playlist.Program{
		Segments: []playlist.SegmentRecord{
			segRec(0, 600, 0),
			segRec(0, 600, 600),
			segRec(1, 600, 1200),
		},
		L: 3, T: 1800,
	}
	shows := groupShows(program)
	require.Len(t, shows, 2)
	assert.Equal(t, 1200.0, shows[0].durSec)
	assert.Equal(t, 600.0, shows[1].durSec)
}

func TestMergeS6CollapsesFourShortRunsWithSameTitle(t *testing.T) {
	base := time.Date(2026, 7, 29, 10, 0, 0, 0, time.Local)
	var entries []Entry
	cursor := base
	for i := 0; i < 4; i++ {
		end := cursor.Add(600 * time.Second)
		entries = append(entries, Entry{Title: "Rerun Block", Start: cursor, End: end, DurationSeconds: 600})
		cursor = end
	}

	merged := merge(entries)
	require.Len(t, merged, 1)
	assert.InDelta(t, 2400.0, merged[0].DurationSeconds, 1e-6)
	assert.Equal(t, base, merged[0].Start)
	assert.Equal(t, cursor, merged[0].End)
}

func TestBuildMarksCurrentEntryInclusiveLeftExclusiveRight(t *testing.T) {
	program := playlist.Program{
		Segments: []playlist.SegmentRecord{
			segRec(0, 3600, 0),
		},
		L: 1, T: 3600,
	}
	now := time.Date(2026, 7, 29, 10, 0, 0, 0, time.Local)
	epoch := now

	entries := Build(program, epoch, now, func(int) string { return "Show" })
	require.NotEmpty(t, entries)

	var found bool
	for _, e := range entries {
		if !now.Before(e.Start) && now.Before(e.End) {
			assert.True(t, e.IsCurrent)
			found = true
		}
	}
	assert.True(t, found)
}
