package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mharlow/loopcast/internal/api"
	"github.com/mharlow/loopcast/internal/bundle"
	"github.com/mharlow/loopcast/internal/channel"
	"github.com/mharlow/loopcast/internal/config"
	"github.com/mharlow/loopcast/internal/engine"
	"github.com/mharlow/loopcast/internal/guide"
	"github.com/mharlow/loopcast/internal/scheduler"
	"github.com/mharlow/loopcast/internal/transcode"
	"github.com/mharlow/loopcast/internal/watcher"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store := bundle.New(cfg.CacheDir)
	worker := transcode.NewWorker(cfg.FFmpegPath, store, transcode.Profile{
		SegmentSeconds: cfg.SegmentSeconds,
		Width:          cfg.Width,
		Height:         cfg.Height,
		VideoCodec:     cfg.VideoCodec,
		Preset:         cfg.Preset,
		Quality:        cfg.Quality,
		Filter:         cfg.Filter,
	})

	pool := channel.NewPool()
	sched := scheduler.New(store, worker)
	eng := engine.New(store, pool, sched)
	sched.OnBundleComplete(eng.RecompileChannel)

	defs, err := channel.LoadDefinitions(cfg.ChannelList)
	if err != nil {
		log.Fatalf("Failed to load channel definitions: %v", err)
	}
	eng.Rebuild(defs)

	guideCache := guide.NewCache(pool, eng.GuideBuildFunc())
	guideCache.Refresh(time.Now())
	go runGuideRefresh(guideCache)

	defsWatcher := watcher.New(cfg.ChannelList, watcher.PollInterval, func(defs []channel.Definition) {
		log.Printf("channel definitions changed, rebuilding")
		eng.Rebuild(defs)
	})
	defsWatcher.Start()
	defer defsWatcher.Stop()

	go sched.Run(context.Background())

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(pool, store, sched, guideCache)

	addr := cfg.Host + ":" + cfg.Port
	log.Printf("Starting loopcast on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func runGuideRefresh(guideCache *guide.Cache) {
	ticker := time.NewTicker(guideCache.RefreshInterval())
	defer ticker.Stop()
	for range ticker.C {
		guideCache.Refresh(time.Now())
	}
}
