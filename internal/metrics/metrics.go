// Package metrics exposes the engine's prometheus instrumentation, grounded
// on the pattern used by the rest of the retrieval pack's HLS-adjacent
// services: counters and gauges registered once at process start, served at
// /metrics via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loopcast"

var (
	// ManifestRequests counts live-manifest requests per channel slug and
	// HTTP status code.
	ManifestRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "manifest_requests_total",
		Help:      "Number of live manifest requests served, by channel and status code.",
	}, []string{"channel", "code"})

	// TranscodeFailures counts non-zero transcoder exits per channel.
	TranscodeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transcode_failures_total",
		Help:      "Number of transcode invocations that exited non-zero, by channel.",
	}, []string{"channel"})

	// TranscodeDuration observes wall-clock seconds spent per successful
	// transcode invocation.
	TranscodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transcode_duration_seconds",
		Help:      "Wall-clock duration of successful transcode invocations, by channel.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"channel"})

	// SchedulerPercentComplete reports the Pre-Generation Scheduler's
	// current progress as a percentage (0-100).
	SchedulerPercentComplete = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_percent_complete",
		Help:      "Percentage of the pre-generation queue processed so far.",
	})

	// SchedulerGenerating reports 1 while the scheduler's Run loop is
	// actively processing the queue, 0 otherwise.
	SchedulerGenerating = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_generating",
		Help:      "1 if the pre-generation scheduler is currently running, 0 otherwise.",
	})
)
