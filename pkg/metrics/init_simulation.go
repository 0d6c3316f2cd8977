package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.SimulationRunDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hydrograph_simulation_run_duration_seconds",
			Help:    "Wall time of a full scenario run",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"scenario"},
	)

	r.SimulationStepDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hydrograph_simulation_step_duration_seconds",
			Help:    "Time to compute a single timestep",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	r.SimulationStepsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrograph_simulation_steps_total",
			Help: "Timesteps computed, by scenario",
		},
		[]string{"scenario"},
	)

	r.SimulationLabelsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrograph_simulation_labels_total",
			Help: "Ground-truth anomaly labels emitted, by anomaly type",
		},
		[]string{"anomaly_type"},
	)
}
