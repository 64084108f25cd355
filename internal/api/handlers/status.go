package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mharlow/loopcast/internal/scheduler"
)

// StatusHandler exposes the Pre-Generation Scheduler's progress and a plain
// liveness probe.
type StatusHandler struct {
	sched *scheduler.Scheduler
}

// NewStatusHandler returns a StatusHandler bound to sched.
func NewStatusHandler(sched *scheduler.Scheduler) *StatusHandler {
	return &StatusHandler{sched: sched}
}

type pregenStatusJSON struct {
	CurrentIndex    int     `json:"currentIndex"`
	TotalVideos     int     `json:"totalVideos"`
	IsGenerating    bool    `json:"isGenerating"`
	PercentComplete float64 `json:"percentComplete"`
}

// GetPregenStatus returns the scheduler's current progress snapshot.
func (h *StatusHandler) GetPregenStatus(c *gin.Context) {
	p := h.sched.Progress()
	c.JSON(http.StatusOK, pregenStatusJSON{
		CurrentIndex:    p.CurrentIndex,
		TotalVideos:     p.TotalVideos,
		IsGenerating:    p.IsGenerating,
		PercentComplete: p.PercentComplete,
	})
}

// Healthz is a plain liveness probe.
func (h *StatusHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
