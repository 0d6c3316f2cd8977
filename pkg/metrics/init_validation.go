package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initValidationMetrics() {
	r.ValidationRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrograph_validation_runs_total",
			Help: "Validation runs, by resulting status",
		},
		[]string{"status"},
	)

	r.ValidationFindingsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrograph_validation_findings_total",
			Help: "Validation findings, by rule and severity",
		},
		[]string{"rule", "severity"},
	)
}
