// Package metrics exposes render progress as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the render telemetry metrics
type Collector struct {
	tilesCompleted prometheus.Counter
	renderProgress prometheus.Gauge
	renderSeconds  prometheus.Histogram
}

// NewCollector creates and registers the render metrics
func NewCollector() *Collector {
	c := &Collector{
		tilesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "render_tiles_completed_total",
			Help: "Total number of tile units merged into the frame",
		}),
		renderProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "render_progress",
			Help: "Completion fraction of the current render job in [0,1]",
		}),
		renderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "render_job_seconds",
			Help:    "Wall-clock duration of completed render jobs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
		}),
	}

	prometheus.MustRegister(c.tilesCompleted)
	prometheus.MustRegister(c.renderProgress)
	prometheus.MustRegister(c.renderSeconds)

	return c
}

// ObserveProgress records a completed tile unit and the new completion
// fraction. Wired into the scheduler's progress callback.
func (c *Collector) ObserveProgress(fraction float64) {
	c.tilesCompleted.Inc()
	c.renderProgress.Set(fraction)
}

// RecordJobDuration records the wall-clock time of a finished job
func (c *Collector) RecordJobDuration(seconds float64) {
	c.renderSeconds.Observe(seconds)
}

// Serve exposes the /metrics endpoint on the given address. It blocks,
// so callers run it in its own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
