// Package metrics exposes Prometheus metrics for community detection runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Registry holds all metrics for the application. A nil *Registry is valid
// and records nothing.
type Registry struct {
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	LevelsTotal     prometheus.Counter
	PassesTotal     prometheus.Counter
	MovesTotal      prometheus.Counter
	LastModularity  prometheus.Gauge
	LastCommunities prometheus.Gauge
	LastLevels      prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initRunMetrics()
	return r
}

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "louvain_runs_total",
			Help: "Total number of community detection runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "louvain_run_duration_seconds",
			Help:    "Community detection run duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
	)

	r.LevelsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "louvain_levels_total",
			Help: "Total number of levels optimized",
		},
	)

	r.PassesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "louvain_passes_total",
			Help: "Total number of local move passes",
		},
	)

	r.MovesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "louvain_moves_total",
			Help: "Total number of node moves",
		},
	)

	r.LastModularity = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "louvain_last_modularity",
			Help: "Modularity reached by the most recent successful run",
		},
	)

	r.LastCommunities = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "louvain_last_communities",
			Help: "Number of communities found by the most recent successful run",
		},
	)

	r.LastLevels = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "louvain_last_levels",
			Help: "Number of levels of the most recent successful run",
		},
	)
}

// ObserveLevel records one completed local move phase
func (r *Registry) ObserveLevel(moves, passes int) {
	if r == nil {
		return
	}
	r.LevelsTotal.Inc()
	r.PassesTotal.Add(float64(passes))
	r.MovesTotal.Add(float64(moves))
}

// ObserveRun records a finished run. The gauges are only updated on success.
func (r *Registry) ObserveRun(status string, duration time.Duration, levels, communities int, modularity float64) {
	if r == nil {
		return
	}
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
	if status != StatusSuccess {
		return
	}
	r.LastModularity.Set(modularity)
	r.LastCommunities.Set(float64(communities))
	r.LastLevels.Set(float64(levels))
}

// WriteTextfile writes the current metrics in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
