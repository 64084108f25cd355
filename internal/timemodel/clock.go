// Package timemodel implements the wall-clock arithmetic shared by channel
// playback and the program guide (spec.md §4.F): offsets, phases, and the
// 03:00 local-time programming-day boundary.
package timemodel

import (
	"math"
	"time"
)

// Now returns the current wall-clock instant at millisecond resolution.
func Now() time.Time {
	return time.Now().Round(time.Millisecond)
}

// Offset returns the seconds elapsed since epoch, clamped to 0 if now
// precedes epoch (clock regression; spec.md §7 "Clock regression").
func Offset(now, epoch time.Time) float64 {
	if now.Before(epoch) {
		return 0
	}
	return now.Sub(epoch).Seconds()
}

// Phase reduces an offset to its position within one loop of total duration
// totalSeconds. It returns 0 if totalSeconds <= 0.
func Phase(offsetSeconds, totalSeconds float64) float64 {
	if totalSeconds <= 0 {
		return 0
	}
	phase := offsetSeconds - totalSeconds*math.Floor(offsetSeconds/totalSeconds)
	if phase < 0 {
		phase = 0
	}
	return phase
}

// LoopCount returns floor(offsetSeconds / totalSeconds), or 0 if
// totalSeconds <= 0.
func LoopCount(offsetSeconds, totalSeconds float64) int64 {
	if totalSeconds <= 0 {
		return 0
	}
	return int64(math.Floor(offsetSeconds / totalSeconds))
}

// Previous3am returns the most recent 03:00 local-time instant at or before
// now.
func Previous3am(now time.Time) time.Time {
	now = now.Local()
	boundary := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
	if boundary.After(now) {
		boundary = boundary.AddDate(0, 0, -1)
	}
	return boundary
}

// Next3am returns the next 03:00 local-time instant strictly after now.
func Next3am(now time.Time) time.Time {
	prev := Previous3am(now)
	return prev.AddDate(0, 0, 1)
}
