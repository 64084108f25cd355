// Package watcher implements the Channel Definitions Watcher (spec.md §4.H):
// a polling loop over the definitions file's modification time. Polling, not
// filesystem notification, is the explicit design here — it stays robust
// across networked filesystems at the cost of latency.
package watcher

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/mharlow/loopcast/internal/channel"
)

// PollInterval is the default period between mtime checks.
const PollInterval = 5 * time.Minute

// OnChange is invoked with the freshly loaded definitions whenever the
// definitions file's modification time advances.
type OnChange func(defs []channel.Definition)

// Watcher polls Path's mtime on its own ticker and invokes OnChange when it
// advances.
type Watcher struct {
	Path     string
	Interval time.Duration
	OnChange OnChange

	mu      sync.Mutex
	lastMod time.Time

	done chan struct{}
}

// New returns a Watcher for path, polling at interval (PollInterval if zero).
func New(path string, interval time.Duration, onChange OnChange) *Watcher {
	if interval <= 0 {
		interval = PollInterval
	}
	return &Watcher{Path: path, Interval: interval, OnChange: onChange, done: make(chan struct{})}
}

// Start records the current mtime (if the file exists) and launches the
// polling loop in a background goroutine.
func (w *Watcher) Start() {
	if info, err := os.Stat(w.Path); err == nil {
		w.mu.Lock()
		w.lastMod = info.ModTime()
		w.mu.Unlock()
	}
	go w.loop()
}

// Stop terminates the polling loop.
func (w *Watcher) Stop() {
	close(w.done)
}

func (w *Watcher) loop() {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.checkAndReload()
		case <-w.done:
			return
		}
	}
}

// checkAndReload is called from loop on each tick and from the exported
// CheckNow, which lets tests drive it synchronously without the ticker.
func (w *Watcher) checkAndReload() {
	info, err := os.Stat(w.Path)
	if err != nil {
		// A missing definitions file is not a change; LoadDefinitions
		// already supplies the documented default when read directly.
		return
	}

	w.mu.Lock()
	changed := info.ModTime().After(w.lastMod)
	w.mu.Unlock()
	if !changed {
		return
	}

	defs, err := channel.LoadDefinitions(w.Path)
	if err != nil {
		// Logged; no reload performed; prior state remains in effect
		// (spec.md §7 "Definitions file unreadable or invalid JSON").
		log.Printf("watcher: definitions reload failed, keeping prior state: %v", err)
		return
	}

	w.mu.Lock()
	w.lastMod = info.ModTime()
	w.mu.Unlock()

	w.OnChange(defs)
}

// CheckNow forces an immediate mtime check outside the ticker cadence; used
// by tests and by an operator-triggered manual reload if ever exposed.
func (w *Watcher) CheckNow() {
	w.checkAndReload()
}
