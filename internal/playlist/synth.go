package playlist

import (
	"fmt"
	"math"
	"strings"

	"github.com/mharlow/loopcast/internal/timemodel"
)

const (
	windowBehind = 30
	windowAhead  = 2000
)

// emptyManifest is returned verbatim for a zero-length Program (spec.md §4.E
// rule 1).
const emptyManifest = "#EXTM3U\n#EXT-X-VERSION:3\n#EXT-X-ENDLIST\n"

// Render composes the rolling live manifest for offsetSeconds into program.
// It never touches the filesystem; program is assumed pre-compiled.
func Render(program Program, offsetSeconds float64) string {
	if program.L == 0 {
		return emptyManifest
	}

	phase := timemodel.Phase(offsetSeconds, program.T)
	loopCount := timemodel.LoopCount(offsetSeconds, program.T)

	k := currentIndex(program, phase)

	behindCount := windowBehind
	if k < behindCount {
		behindCount = k
	}

	window := make([]SegmentRecord, 0, behindCount+windowAhead)
	for i := k - behindCount; i < k; i++ {
		window = append(window, program.Segments[i])
	}
	for i := 0; i < windowAhead; i++ {
		window = append(window, program.Segments[(k+i)%program.L])
	}

	mediaSequence := loopCount*int64(program.L) + int64(maxInt(0, k-windowBehind))

	dmaxWindow := 0.0
	for _, seg := range window {
		if seg.DurationSeconds > dmaxWindow {
			dmaxWindow = seg.DurationSeconds
		}
	}
	targetDuration := int(math.Ceil(math.Max(dmaxWindow, 2)))

	var b strings.Builder
	fmt.Fprintf(&b, "#EXTM3U\n#EXT-X-VERSION:3\n#EXT-X-TARGETDURATION:%d\n#EXT-X-MEDIA-SEQUENCE:%d\n",
		targetDuration, mediaSequence)

	for i, seg := range window {
		if i > 0 && seg.VideoIndex != window[i-1].VideoIndex {
			b.WriteString("#EXT-X-DISCONTINUITY\n")
		}
		fmt.Fprintf(&b, "#EXTINF:%.6f,\n%s\n", seg.DurationSeconds, seg.RelativeURL)
	}

	return b.String()
}

// currentIndex finds the smallest segment index whose cumulative timestamp
// is strictly greater than phase, per spec.md §4.E rule 2. If no such index
// exists, it returns 0.
func currentIndex(program Program, phase float64) int {
	for i, seg := range program.Segments {
		if seg.CumulativeTimestamp > phase {
			return i
		}
	}
	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
