// Package config loads the engine's configuration: defaults, then an
// optional YAML file, then environment variables, then command-line flags —
// each layer overriding the last, the way the teacher's Load() does it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds every configuration input spec.md §6 enumerates, plus the
// ambient HTTP bind address.
type Config struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`

	CacheDir    string `yaml:"cache_dir"`
	ChannelList string `yaml:"channel_list"`

	FFmpegPath     string `yaml:"ffmpeg_path"`
	SegmentSeconds int    `yaml:"hls_segment_length_seconds"`
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`

	VideoCodec string `yaml:"video_codec"`
	Preset     string `yaml:"preset"`
	Quality    string `yaml:"quality"`
	Filter     string `yaml:"filter"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".loopcast")

	return &Config{
		Host:           "0.0.0.0",
		Port:           "8080",
		CacheDir:       filepath.Join(dataDir, "cache"),
		ChannelList:    "channels.json",
		FFmpegPath:     "ffmpeg",
		SegmentSeconds: 6,
		Width:          1280,
		Height:         720,
		VideoCodec:     "libx264",
		Preset:         "fast",
		Quality:        "23",
		Filter:         "",
	}
}

// Load builds a Config by layering, in increasing priority: built-in
// defaults, an optional YAML file, the environment variables spec.md §6
// enumerates, and any CLI flags present in args.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	configPaths := []string{
		"config.yaml",
		"config.yml",
		filepath.Join(os.Getenv("HOME"), ".loopcast", "config.yaml"),
		"/etc/loopcast/config.yaml",
	}
	for _, path := range configPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		break
	}

	applyEnv(cfg)

	if err := applyFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("config: create cache dir: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides cfg with the enumerated environment variables
// (spec.md §6 "Configuration inputs"). No other environment variable
// affects the core.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("CHANNEL_LIST"); v != "" {
		cfg.ChannelList = v
	}
	if v := os.Getenv("HLS_SEGMENT_LENGTH_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SegmentSeconds = n
		}
	}
	if v := os.Getenv("DIMENSIONS"); v != "" {
		if w, h, ok := parseDimensions(v); ok {
			cfg.Width, cfg.Height = w, h
		}
	}
	if v := os.Getenv("FFMPEG_PATH"); v != "" {
		cfg.FFmpegPath = v
	}
	if v := os.Getenv("VIDEO_CODEC"); v != "" {
		cfg.VideoCodec = v
	}
	if v := os.Getenv("PRESET"); v != "" {
		cfg.Preset = v
	}
	if v := os.Getenv("QUALITY"); v != "" {
		cfg.Quality = v
	}
	if v := os.Getenv("FILTER"); v != "" {
		cfg.Filter = v
	}
}

// applyFlags layers CLI overrides atop the file/env result, using pflag to
// match the rest of the pack's CLI-surfaced services.
func applyFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("loopcast", pflag.ContinueOnError)

	cacheDir := fs.String("cache-dir", cfg.CacheDir, "root directory for the on-disk segment bundle layout")
	channelList := fs.String("channel-list", cfg.ChannelList, "path to the channel-definitions JSON file")
	segmentSeconds := fs.Int("segment-seconds", cfg.SegmentSeconds, "target HLS segment duration in seconds")
	dimensions := fs.String("dimensions", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), "target frame WxH, e.g. 1280x720")
	ffmpegPath := fs.String("ffmpeg-path", cfg.FFmpegPath, "path to the ffmpeg binary")
	videoCodec := fs.String("video-codec", cfg.VideoCodec, "transcoder video codec")
	preset := fs.String("preset", cfg.Preset, "transcoder encoder preset")
	quality := fs.String("quality", cfg.Quality, "transcoder quality (crf) setting")
	filter := fs.String("filter", cfg.Filter, "transcoder video filter override")
	host := fs.String("host", cfg.Host, "HTTP bind host")
	port := fs.String("port", cfg.Port, "HTTP bind port")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("config: parse flags: %w", err)
	}

	cfg.CacheDir = *cacheDir
	cfg.ChannelList = *channelList
	cfg.SegmentSeconds = *segmentSeconds
	cfg.FFmpegPath = *ffmpegPath
	cfg.VideoCodec = *videoCodec
	cfg.Preset = *preset
	cfg.Quality = *quality
	cfg.Filter = *filter
	cfg.Host = *host
	cfg.Port = *port
	if w, h, ok := parseDimensions(*dimensions); ok {
		cfg.Width, cfg.Height = w, h
	}

	return nil
}

func parseDimensions(s string) (w, h int, ok bool) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil {
		return 0, 0, false
	}
	return w, h, true
}
