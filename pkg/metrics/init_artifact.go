package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initArtifactMetrics() {
	r.ArtifactOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrograph_artifact_operations_total",
			Help: "Artifact store operations, by operation, backend and status",
		},
		[]string{"operation", "backend", "status"},
	)

	r.ArtifactSizeBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hydrograph_artifact_size_bytes",
			Help:    "Compressed artifact size in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"operation"},
	)

	r.TelemetryRowsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrograph_telemetry_rows_total",
			Help: "Telemetry rows written, by sink",
		},
		[]string{"sink"},
	)
}
