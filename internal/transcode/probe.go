package transcode

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"time"
)

// probeTimeout is the wall-clock budget for a source-file probe, per spec.md
// §5: "Probe invocations on source files ... carry a 10-second wall-clock
// timeout; a timeout is treated as 'unknown' metadata, never fatal."
const probeTimeout = 10 * time.Second

// ProbeResult is the subset of ffprobe output this engine cares about. Codec
// argument tuning and GPU capability probing consume richer ffprobe output
// but live outside this repository's scope (spec.md §1).
type ProbeResult struct {
	DurationSeconds float64
	VideoCodec      string
}

type ffprobeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

// Prober wraps ffprobe invocations with the 10-second timeout spec.md
// mandates. A nil *ProbeResult means "unknown" and is never an error condition
// from the caller's point of view.
type Prober struct {
	FFprobePath string
}

// NewProber derives the ffprobe binary from an ffmpeg path the way the
// teacher's pkg/ffmpeg.NewFFprobe does (replace "ffmpeg" with "ffprobe", or
// fall back to the bare name).
func NewProber(ffmpegPath string) *Prober {
	probePath := "ffprobe"
	const marker = "ffmpeg"
	if i := lastIndex(ffmpegPath, marker); i >= 0 {
		probePath = ffmpegPath[:i] + "ffprobe" + ffmpegPath[i+len(marker):]
	}
	return &Prober{FFprobePath: probePath}
}

func lastIndex(s, sub string) int {
	for i := len(s) - len(sub); i >= 0; i-- {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// Probe runs ffprobe against path with a 10-second timeout. On timeout or any
// other failure it returns (nil, nil): unknown metadata, never fatal.
func (p *Prober) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.FFprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, nil
	}

	var parsed ffprobeFormat
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, nil
	}

	result := &ProbeResult{}
	if parsed.Format.Duration != "" {
		if d, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
			result.DurationSeconds = d
		}
	}
	for _, s := range parsed.Streams {
		if s.CodecType == "video" {
			result.VideoCodec = s.CodecName
			break
		}
	}
	return result, nil
}
