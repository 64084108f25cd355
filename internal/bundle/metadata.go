package bundle

import "time"

// Metadata is the metadata.json record sealed into a bundle directory once a
// transcode completes.
type Metadata struct {
	OriginalPath string    `json:"originalPath"`
	VideoHash    string    `json:"videoHash"`
	GeneratedAt  time.Time `json:"generatedAt"`
	Duration     float64   `json:"duration"`
}

// ManifestEntry is one value in a channel's manifest.json, the fingerprint ->
// original-path mapping used by the program guide to recover source paths.
type ManifestEntry struct {
	OriginalPath string `json:"originalPath"`
	Filename     string `json:"filename"`
	AddedAt      int64  `json:"addedAt"`
}

// Manifest is the full manifest.json for a channel: fingerprint -> entry.
type Manifest map[string]ManifestEntry
