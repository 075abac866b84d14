// Package telemetry records run counters in a Prometheus registry and writes
// them out as a node_exporter textfile.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/five82/vidsift/internal/validation"
)

// TextfileName is the metrics file written into the output root.
const TextfileName = "metrics.prom"

// Recorder holds the counters for one run. It owns its registry so runs
// never share state.
type Recorder struct {
	registry *prometheus.Registry

	VideosTotal       *prometheus.CounterVec
	RejectionsTotal   *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram
	CacheHitsTotal    prometheus.Counter
	CopyFailuresTotal prometheus.Counter
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		VideosTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidsift_videos_total",
				Help: "Videos screened, by exercise and decision.",
			},
			[]string{"exercise", "decision"},
		),
		RejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidsift_rejections_total",
				Help: "Rejection reasons recorded, by exercise and reason.",
			},
			[]string{"exercise", "reason"},
		),
		AnalysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vidsift_video_analysis_seconds",
				Help:    "Time spent sampling and measuring one video.",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
		CacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "vidsift_cache_hits_total",
			Help: "Videos whose metrics were served from the cache.",
		}),
		CopyFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "vidsift_copy_failures_total",
			Help: "Accepted videos that could not be copied.",
		}),
	}
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveVideo records one evaluated video.
func (r *Recorder) ObserveVideo(exercise string, res validation.Result, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.VideosTotal.WithLabelValues(exercise, res.Decision()).Inc()
	for _, reason := range res.Reasons {
		r.RejectionsTotal.WithLabelValues(exercise, string(reason)).Inc()
	}
	if elapsed > 0 {
		r.AnalysisDuration.Observe(elapsed.Seconds())
	}
}

// CacheHit records a cache hit.
func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.CacheHitsTotal.Inc()
}

// CopyFailed records a failed copy.
func (r *Recorder) CopyFailed() {
	if r == nil {
		return
	}
	r.CopyFailuresTotal.Inc()
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
