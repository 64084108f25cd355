package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mharlow/loopcast/internal/api/handlers"
	"github.com/mharlow/loopcast/internal/api/middleware"
	"github.com/mharlow/loopcast/internal/bundle"
	"github.com/mharlow/loopcast/internal/channel"
	"github.com/mharlow/loopcast/internal/guide"
	"github.com/mharlow/loopcast/internal/scheduler"
)

// NewRouter wires the HTTP surface: live manifests and segments, the
// channel list and program guide, and the pre-generation/health endpoints
// the operator watches.
func NewRouter(pool *channel.Pool, store *bundle.Store, sched *scheduler.Scheduler, guideCache *guide.Cache) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.RequestLogger())

	streamHandler := handlers.NewStreamHandler(pool, store)
	channelsHandler := handlers.NewChannelsHandler(pool, guideCache)
	statusHandler := handlers.NewStatusHandler(sched)

	router.GET("/healthz", statusHandler.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/channels/:slug/manifest.m3u8", streamHandler.GetManifest)
	router.GET("/channels/:slug/videos/:fingerprint/:file", streamHandler.GetSegment)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/channels", channelsHandler.ListChannels)
		apiGroup.GET("/channels/:slug/guide", channelsHandler.GetGuide)
		apiGroup.GET("/pregen/status", statusHandler.GetPregenStatus)
	}

	return router
}
