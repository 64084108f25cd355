package bundle

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCompleteBundle(t *testing.T, s *Store, slug, fp string) {
	t.Helper()
	dir, err := s.Create(slug, fp)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "segment_00000.ts"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "segment_00001.ts"), []byte("b"), 0644))

	index := "#EXTM3U\n#EXT-X-VERSION:3\n#EXT-X-TARGETDURATION:6\n#EXT-X-MEDIA-SEQUENCE:0\n" +
		"#EXTINF:6.000000,\nsegment_00000.ts\n#EXTINF:4.500000,\nsegment_00001.ts\n#EXT-X-ENDLIST\n"
	require.NoError(t, os.WriteFile(s.indexPath(slug, fp), []byte(index), 0644))

	require.NoError(t, s.WriteMetadata(slug, fp, Metadata{
		OriginalPath: "/media/foo.mp4",
		VideoHash:    fp,
		GeneratedAt:  time.Now().UTC(),
		Duration:     1.5,
	}))
}

func TestExists_CompleteBundle(t *testing.T) {
	s := New(t.TempDir())
	writeCompleteBundle(t, s, "ch1", "fp1")
	assert.Equal(t, Complete, s.Exists("ch1", "fp1"))
}

func TestExists_Absent(t *testing.T) {
	s := New(t.TempDir())
	assert.Equal(t, Absent, s.Exists("ch1", "nope"))
}

func TestExists_PartialMissingEndList(t *testing.T) {
	s := New(t.TempDir())
	dir, err := s.Create("ch1", "fp1")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "segment_00000.ts"), []byte("a"), 0644))
	index := "#EXTM3U\n#EXTINF:6.000000,\nsegment_00000.ts\n" // no ENDLIST
	require.NoError(t, os.WriteFile(s.indexPath("ch1", "fp1"), []byte(index), 0644))
	require.NoError(t, s.WriteMetadata("ch1", "fp1", Metadata{}))

	assert.Equal(t, Partial, s.Exists("ch1", "fp1"))
}

func TestExists_PartialMissingSegmentFile(t *testing.T) {
	s := New(t.TempDir())
	writeCompleteBundle(t, s, "ch1", "fp1")
	require.NoError(t, os.Remove(filepath.Join(s.VideoDir("ch1", "fp1"), "segment_00001.ts")))

	assert.Equal(t, Partial, s.Exists("ch1", "fp1"))
}

func TestExists_PartialMissingMetadata(t *testing.T) {
	s := New(t.TempDir())
	writeCompleteBundle(t, s, "ch1", "fp1")
	require.NoError(t, os.Remove(s.metadataPath("ch1", "fp1")))

	assert.Equal(t, Partial, s.Exists("ch1", "fp1"))
}

func TestExists_PartialMissingIndex(t *testing.T) {
	s := New(t.TempDir())
	dir, err := s.Create("ch1", "fp1")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "segment_00000.ts"), []byte("a"), 0644))
	require.NoError(t, s.WriteMetadata("ch1", "fp1", Metadata{}))

	assert.Equal(t, Partial, s.Exists("ch1", "fp1"))
}

func TestReapRemovesPartialBundle(t *testing.T) {
	s := New(t.TempDir())
	dir, err := s.Create("ch1", "fp1")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "segment_00000.ts"), []byte("a"), 0644))
	index := "#EXTM3U\n#EXTINF:6.000000,\nsegment_00000.ts\n"
	require.NoError(t, os.WriteFile(s.indexPath("ch1", "fp1"), []byte(index), 0644))

	require.Equal(t, Partial, s.Exists("ch1", "fp1"))
	require.NoError(t, s.Reap("ch1", "fp1"))
	assert.Equal(t, Absent, s.Exists("ch1", "fp1"))
}

func TestOpenParsesCompleteBundle(t *testing.T) {
	s := New(t.TempDir())
	writeCompleteBundle(t, s, "ch1", "fp1")

	segments, meta, err := s.Open("ch1", "fp1")
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "segment_00000.ts", segments[0].Filename)
	assert.InDelta(t, 6.0, segments[0].Duration, 1e-9)
	assert.InDelta(t, 4.5, segments[1].Duration, 1e-9)
	assert.Equal(t, "/media/foo.mp4", meta.OriginalPath)
}

func TestManifestRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.UpsertManifestEntry("ch1", "fp1", ManifestEntry{
		OriginalPath: "/media/a.mp4",
		Filename:     "a.mp4",
		AddedAt:      1000,
	}))

	m, err := s.LoadManifest("ch1")
	require.NoError(t, err)
	require.Contains(t, m, "fp1")
	assert.Equal(t, "/media/a.mp4", m["fp1"].OriginalPath)
}
