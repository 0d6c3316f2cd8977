package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// All Record* methods are no-ops on a nil *Registry so library code can
// accept an optional registry.

// RecordCompile records a finished compilation
func (r *Registry) RecordCompile(duration time.Duration, nodes, edges int) {
	if r == nil {
		return
	}
	r.CompileDuration.Observe(duration.Seconds())
	r.CompiledNodes.Set(float64(nodes))
	r.CompiledEdges.Set(float64(edges))
}

// RecordCompileWarning counts a recoverable compile problem
func (r *Registry) RecordCompileWarning(kind string) {
	if r == nil {
		return
	}
	r.CompileWarningsTotal.WithLabelValues(kind).Inc()
}

// RecordTemplateExpansion counts a template application and its outcome
func (r *Registry) RecordTemplateExpansion(template, outcome string) {
	if r == nil {
		return
	}
	r.TemplateExpansionsTotal.WithLabelValues(template, outcome).Inc()
}

// RecordSimulationStep records one computed timestep
func (r *Registry) RecordSimulationStep(scenario string, duration time.Duration) {
	if r == nil {
		return
	}
	r.SimulationStepsTotal.WithLabelValues(scenario).Inc()
	r.SimulationStepDuration.Observe(duration.Seconds())
}

// RecordSimulationRun records a completed scenario run and its labels
func (r *Registry) RecordSimulationRun(scenario string, duration time.Duration, labelsByType map[string]int) {
	if r == nil {
		return
	}
	r.SimulationRunDuration.WithLabelValues(scenario).Observe(duration.Seconds())
	for anomalyType, n := range labelsByType {
		r.SimulationLabelsTotal.WithLabelValues(anomalyType).Add(float64(n))
	}
}

// RecordValidation records a validation run status
func (r *Registry) RecordValidation(status string) {
	if r == nil {
		return
	}
	r.ValidationRunsTotal.WithLabelValues(status).Inc()
}

// RecordFinding counts one validation finding
func (r *Registry) RecordFinding(rule, severity string) {
	if r == nil {
		return
	}
	r.ValidationFindingsTotal.WithLabelValues(rule, severity).Inc()
}

// RecordArtifactOperation records a store Put/Get
func (r *Registry) RecordArtifactOperation(operation, backend string, err error, size int) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.ArtifactOperationsTotal.WithLabelValues(operation, backend, status).Inc()
	if err == nil && size > 0 {
		r.ArtifactSizeBytes.WithLabelValues(operation).Observe(float64(size))
	}
}

// RecordTelemetryRows counts rows written to a telemetry sink
func (r *Registry) RecordTelemetryRows(sink string, rows int) {
	if r == nil {
		return
	}
	r.TelemetryRowsTotal.WithLabelValues(sink).Add(float64(rows))
}

// UpdateSystemMetrics samples Go runtime metrics
func (r *Registry) UpdateSystemMetrics() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// WriteTextfile samples system metrics and writes the registry in the text
// exposition format to path, for the node-exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, r.registry)
}
