// Package transcode implements the Transcode Worker (spec.md §4.B): it spawns
// exactly one external transcoder process at a time and seals its output into
// a Segment Bundle.
package transcode

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/mharlow/loopcast/internal/bundle"
	"github.com/mharlow/loopcast/internal/fingerprint"
)

// Status is the outcome of a single Transcode invocation.
type Status int

const (
	StatusComplete Status = iota
	StatusSkipped         // bundle was already complete; the worker was not invoked
	StatusFailed
)

// Result reports what happened to one source item.
type Result struct {
	Status   Status
	ExitCode int
	Tail     string
	Elapsed  time.Duration
}

// Profile carries the encode settings the external transcoder is invoked
// with. GPU selection and per-codec argument tuning are deliberately out of
// scope (spec.md §1); Profile only carries what spec.md §6 enumerates as
// configuration inputs.
type Profile struct {
	SegmentSeconds int
	Width, Height  int
	VideoCodec     string
	Preset         string
	Quality        string
	Filter         string
}

// Worker spawns the external transcoder named by FFmpegPath to produce one
// bundle at a time. It never runs two invocations concurrently itself;
// serialization across channels is the Pre-Generation Scheduler's job
// (spec.md §4.C, §5).
type Worker struct {
	FFmpegPath string
	Store      *bundle.Store
	Prober     *Prober
	Profile    Profile
}

// NewWorker constructs a Worker bound to store and the given encode profile.
func NewWorker(ffmpegPath string, store *bundle.Store, profile Profile) *Worker {
	return &Worker{
		FFmpegPath: ffmpegPath,
		Store:      store,
		Prober:     NewProber(ffmpegPath),
		Profile:    profile,
	}
}

// Transcode produces the bundle for sourcePath under slug, honoring the
// orderings in spec.md §4.B: a complete bundle short-circuits without
// spawning a process; a partial bundle is reaped first.
func (w *Worker) Transcode(ctx context.Context, sourcePath, slug string) (Result, error) {
	fp := fingerprint.Of(sourcePath)

	switch w.Store.Exists(slug, fp) {
	case bundle.Complete:
		return Result{Status: StatusSkipped}, nil
	case bundle.Partial:
		if err := w.Store.Reap(slug, fp); err != nil {
			return Result{}, fmt.Errorf("transcode: reap partial bundle: %w", err)
		}
	}

	dir, err := w.Store.Create(slug, fp)
	if err != nil {
		return Result{}, fmt.Errorf("transcode: create bundle dir: %w", err)
	}

	// Best-effort probe; unknown metadata is never fatal (spec.md §5).
	_, _ = w.Prober.Probe(ctx, sourcePath)

	args := w.buildArgs(sourcePath, dir)
	cmd := exec.CommandContext(ctx, w.FFmpegPath, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{Status: StatusFailed, ExitCode: -1, Tail: err.Error()}, nil
	}

	tail := newTailBuffer(500)
	drained := make(chan struct{})
	go func() {
		_, _ = io.Copy(tail, stderr)
		close(drained)
	}()

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{Status: StatusFailed, ExitCode: -1, Tail: err.Error()}, nil
	}

	waitErr := cmd.Wait()
	<-drained
	elapsed := time.Since(started)

	if waitErr != nil {
		exitCode := -1
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return Result{Status: StatusFailed, ExitCode: exitCode, Tail: tail.String(), Elapsed: elapsed}, nil
	}

	if err := w.Store.WriteMetadata(slug, fp, bundle.Metadata{
		OriginalPath: sourcePath,
		VideoHash:    fp,
		GeneratedAt:  time.Now().UTC(),
		Duration:     elapsed.Seconds(),
	}); err != nil {
		return Result{}, fmt.Errorf("transcode: write metadata: %w", err)
	}

	if err := w.Store.UpsertManifestEntry(slug, fp, bundle.ManifestEntry{
		OriginalPath: sourcePath,
		Filename:     filepath.Base(sourcePath),
		AddedAt:      time.Now().UnixMilli(),
	}); err != nil {
		return Result{}, fmt.Errorf("transcode: update manifest: %w", err)
	}

	return Result{Status: StatusComplete, Elapsed: elapsed}, nil
}

func (w *Worker) buildArgs(sourcePath, outputDir string) []string {
	p := w.Profile
	segmentSeconds := p.SegmentSeconds
	if segmentSeconds <= 0 {
		segmentSeconds = 6
	}
	videoCodec := p.VideoCodec
	if videoCodec == "" {
		videoCodec = "libx264"
	}
	preset := p.Preset
	if preset == "" {
		preset = "fast"
	}

	args := []string{"-y", "-i", sourcePath}

	if p.Width > 0 && p.Height > 0 {
		filter := p.Filter
		if filter == "" {
			filter = fmt.Sprintf("scale=%d:%d", p.Width, p.Height)
		}
		args = append(args, "-vf", filter)
	}

	args = append(args,
		"-c:v", videoCodec,
		"-preset", preset,
		"-c:a", "aac",
	)
	if p.Quality != "" {
		args = append(args, "-crf", p.Quality)
	}

	args = append(args,
		"-f", "hls",
		"-hls_time", fmt.Sprintf("%d", segmentSeconds),
		"-hls_list_size", "0",
		"-hls_segment_filename", filepath.Join(outputDir, "segment_%05d.ts"),
		filepath.Join(outputDir, "index.m3u8"),
	)
	return args
}
