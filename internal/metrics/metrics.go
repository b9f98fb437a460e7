package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"vidnotes/internal/services"
)

const namespace = "vidnotes"

// Recorder holds the run metrics.
type Recorder struct {
	registry    *prometheus.Registry
	videosTotal *prometheus.CounterVec
	stageErrors *prometheus.CounterVec
	stageTime   *prometheus.HistogramVec
	runDuration *prometheus.GaugeVec
	lastRun     *prometheus.GaugeVec
	discovered  *prometheus.GaugeVec
}

// NewRecorder builds a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.videosTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "videos_total",
		Help:      "Videos handled by outcome (success, failed, skipped).",
	}, []string{"channel", "status"})

	r.stageErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stage_errors_total",
		Help:      "Pipeline stage failures by classified error kind.",
	}, []string{"stage", "kind"})

	r.stageTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Pipeline stage durations.",
		Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1200},
	}, []string{"stage", "result"})

	r.runDuration = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last batch run per channel.",
	}, []string{"channel"})

	r.lastRun = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last batch run finished per channel.",
	}, []string{"channel"})

	r.discovered = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "discovered_videos",
		Help:      "Videos returned by discovery in the last run per channel.",
	}, []string{"channel"})

	r.registry.MustRegister(r.videosTotal, r.stageErrors, r.stageTime, r.runDuration, r.lastRun, r.discovered)
	return r
}

// Registry exposes the underlying registry (for tests and custom gatherers).
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveStage records a stage attempt. It satisfies the pipeline's
// StageObserver.
func (r *Recorder) ObserveStage(stage string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		r.stageErrors.WithLabelValues(stage, services.Classify(err)).Inc()
	}
	r.stageTime.WithLabelValues(stage, result).Observe(elapsed.Seconds())
}

// RecordVideo counts one video outcome.
func (r *Recorder) RecordVideo(channel, status string) {
	r.videosTotal.WithLabelValues(channel, status).Inc()
}

// RecordDiscovery stores how many videos discovery returned.
func (r *Recorder) RecordDiscovery(channel string, count int) {
	r.discovered.WithLabelValues(channel).Set(float64(count))
}

// RecordRun stores the duration and completion time of a run.
func (r *Recorder) RecordRun(channel string, elapsed time.Duration, finished time.Time) {
	r.runDuration.WithLabelValues(channel).Set(elapsed.Seconds())
	r.lastRun.WithLabelValues(channel).Set(float64(finished.Unix()))
}

// WriteTextfile writes the registry in text exposition format to path.
// A blank path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
