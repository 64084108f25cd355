package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mharlow/loopcast/internal/channel"
	"github.com/mharlow/loopcast/internal/guide"
)

// ChannelsHandler lists channels and serves their derived program guide.
type ChannelsHandler struct {
	pool  *channel.Pool
	guide *guide.Cache
}

// NewChannelsHandler returns a ChannelsHandler bound to pool and guide.
func NewChannelsHandler(pool *channel.Pool, guideCache *guide.Cache) *ChannelsHandler {
	return &ChannelsHandler{pool: pool, guide: guideCache}
}

type channelSummary struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Started bool   `json:"started"`
}

// ListChannels returns every configured channel and whether it has begun
// broadcasting.
func (h *ChannelsHandler) ListChannels(c *gin.Context) {
	channels := h.pool.List()
	out := make([]channelSummary, 0, len(channels))
	for _, ch := range channels {
		out = append(out, channelSummary{Slug: ch.Slug, Name: ch.Name, Started: ch.Started()})
	}
	c.JSON(http.StatusOK, out)
}

type scheduleEntryJSON struct {
	Title           string  `json:"title"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	DurationSeconds float64 `json:"durationSeconds"`
	IsCurrent       bool    `json:"isCurrent"`
}

// GetGuide returns the cached schedule entries for one channel.
func (h *ChannelsHandler) GetGuide(c *gin.Context) {
	slug := c.Param("slug")
	if h.pool.Get(slug) == nil {
		c.String(http.StatusNotFound, "channel not found")
		return
	}

	entries := h.guide.Get(slug, time.Now())
	out := make([]scheduleEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, scheduleEntryJSON{
			Title:           e.Title,
			Start:           e.Start.Format(time.RFC3339),
			End:             e.End.Format(time.RFC3339),
			DurationSeconds: e.DurationSeconds,
			IsCurrent:       e.IsCurrent,
		})
	}
	c.JSON(http.StatusOK, out)
}
