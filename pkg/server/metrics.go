package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors on a private
// registry, so multiple services in one process never collide.
type Metrics struct {
	registry *prometheus.Registry

	JobsSubmitted prometheus.Counter
	JobsFinished  *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	LevelsPerRun  prometheus.Histogram
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	return &Metrics{
		registry: registry,
		JobsSubmitted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "leiden_jobs_submitted_total",
			Help: "Total number of clustering jobs accepted",
		}),
		JobsFinished: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "leiden_jobs_finished_total",
			Help: "Total number of clustering jobs finished, by terminal status",
		}, []string{"status"}),
		RunDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "leiden_run_duration_seconds",
			Help:    "Wall-clock duration of engine runs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 60.0},
		}),
		LevelsPerRun: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "leiden_levels_per_run",
			Help:    "Hierarchy depth reached per engine run",
			Buckets: []float64{1, 2, 3, 4, 5, 8, 12},
		}),
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
