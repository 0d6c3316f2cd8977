package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCompileMetrics() {
	r.CompileDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hydrograph_compile_duration_seconds",
			Help:    "Time spent compiling the network DSL into a graph",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.CompileWarningsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrograph_compile_warnings_total",
			Help: "Recoverable problems found while compiling, by kind",
		},
		[]string{"kind"},
	)

	r.CompiledNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "hydrograph_compiled_nodes",
			Help: "Number of nodes in the last compiled graph",
		},
	)

	r.CompiledEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "hydrograph_compiled_edges",
			Help: "Number of edges in the last compiled graph",
		},
	)

	r.TemplateExpansionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "hydrograph_template_expansions_total",
			Help: "Template applications processed, by template and outcome",
		},
		[]string{"template", "outcome"},
	)
}
