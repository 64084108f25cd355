package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("CACHE_DIR", t.TempDir())
	t.Setenv("HLS_SEGMENT_LENGTH_SECONDS", "4")
	t.Setenv("DIMENSIONS", "640x480")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.SegmentSeconds)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
}

func TestLoadAppliesFlagOverridesOverEnv(t *testing.T) {
	t.Setenv("CACHE_DIR", t.TempDir())
	t.Setenv("HLS_SEGMENT_LENGTH_SECONDS", "4")

	cfg, err := Load([]string{"--segment-seconds", "10"})
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.SegmentSeconds)
}

func TestParseDimensions(t *testing.T) {
	w, h, ok := parseDimensions("1920x1080")
	require.True(t, ok)
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)

	_, _, ok = parseDimensions("bogus")
	assert.False(t, ok)
}
