package handlers

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mharlow/loopcast/internal/bundle"
	"github.com/mharlow/loopcast/internal/channel"
	"github.com/mharlow/loopcast/internal/metrics"
)

// StreamHandler serves the live manifest and segment files for channels —
// the only request-path surface the Synthesizer and Segment Bundle Store
// are exercised through.
type StreamHandler struct {
	pool  *channel.Pool
	store *bundle.Store
}

// NewStreamHandler returns a StreamHandler bound to pool and store.
func NewStreamHandler(pool *channel.Pool, store *bundle.Store) *StreamHandler {
	return &StreamHandler{pool: pool, store: store}
}

// GetManifest serves a channel's rolling live manifest. Exit semantics
// follow spec.md §6: unknown slug -> 404; not yet started -> 503; started
// with an empty program -> the three-line empty manifest (handled by
// playlist.Render itself).
func (h *StreamHandler) GetManifest(c *gin.Context) {
	slug := c.Param("slug")
	ch := h.pool.Get(slug)
	if ch == nil {
		metrics.ManifestRequests.WithLabelValues(slug, "404").Inc()
		c.String(http.StatusNotFound, "channel not found")
		return
	}

	manifest, ok := ch.CurrentManifest(time.Now())
	if !ok {
		metrics.ManifestRequests.WithLabelValues(slug, "503").Inc()
		c.String(http.StatusServiceUnavailable, "channel not started")
		return
	}

	metrics.ManifestRequests.WithLabelValues(slug, "200").Inc()
	c.Header("Content-Type", "application/vnd.apple.mpegurl")
	c.String(http.StatusOK, manifest)
}

// GetSegment serves one sealed segment file straight off disk. The Segment
// Bundle Store is the only component permitted to write these directories;
// this handler only reads.
func (h *StreamHandler) GetSegment(c *gin.Context) {
	slug := c.Param("slug")
	fingerprint := c.Param("fingerprint")
	file := filepath.Base(c.Param("file"))

	dir := h.store.VideoDir(slug, fingerprint)
	c.File(filepath.Join(dir, file))
}
