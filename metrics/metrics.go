// Package metrics exposes prometheus collectors for search runs.
//
// A Collector is bound to one prometheus.Registerer; the engine and the HTTP
// server share it. A nil *Collector is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector groups the run metrics.
type Collector struct {
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	expanded  prometheus.Histogram
	pathSteps prometheus.Histogram
	events    prometheus.Counter
	active    prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "astarviz_runs_total",
			Help: "Search runs by terminal state",
		}, []string{"state"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "astarviz_run_duration_seconds",
			Help:    "Wall-clock search run duration in seconds by terminal state",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}, []string{"state"}),
		expanded: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "astarviz_run_expanded_nodes",
			Help:    "Nodes popped from the open set per run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		pathSteps: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "astarviz_path_steps",
			Help:    "Length of found paths in steps",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		events: f.NewCounter(prometheus.CounterOpts{
			Name: "astarviz_events_emitted_total",
			Help: "Visualization events delivered to consumers",
		}),
		active: f.NewGauge(prometheus.GaugeOpts{
			Name: "astarviz_runs_active",
			Help: "Runs currently in the Running state",
		}),
	}
}

// RunStarted marks a run as active.
func (c *Collector) RunStarted() {
	if c == nil {
		return
	}
	c.active.Inc()
}

// RunFinished records the terminal state of a run that had started.
func (c *Collector) RunFinished(state string, d time.Duration, expanded, steps int) {
	if c == nil {
		return
	}
	c.active.Dec()
	c.runs.WithLabelValues(state).Inc()
	c.duration.WithLabelValues(state).Observe(d.Seconds())
	c.expanded.Observe(float64(expanded))
	if steps > 0 {
		c.pathSteps.Observe(float64(steps))
	}
}

// RunRejected counts a run that failed validation before searching.
func (c *Collector) RunRejected(state string) {
	if c == nil {
		return
	}
	c.runs.WithLabelValues(state).Inc()
}

// EventEmitted counts one delivered event.
func (c *Collector) EventEmitted() {
	if c == nil {
		return
	}
	c.events.Inc()
}
