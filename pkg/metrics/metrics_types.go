package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the pipeline stages
type Registry struct {
	// Compile Metrics
	CompileDuration         prometheus.Histogram
	CompileWarningsTotal    *prometheus.CounterVec
	CompiledNodes           prometheus.Gauge
	CompiledEdges           prometheus.Gauge
	TemplateExpansionsTotal *prometheus.CounterVec

	// Simulation Metrics
	SimulationRunDuration  *prometheus.HistogramVec
	SimulationStepDuration prometheus.Histogram
	SimulationStepsTotal   *prometheus.CounterVec
	SimulationLabelsTotal  *prometheus.CounterVec

	// Validation Metrics
	ValidationRunsTotal     *prometheus.CounterVec
	ValidationFindingsTotal *prometheus.CounterVec

	// Artifact & telemetry I/O Metrics
	ArtifactOperationsTotal *prometheus.CounterVec
	ArtifactSizeBytes       *prometheus.HistogramVec
	TelemetryRowsTotal      *prometheus.CounterVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	startTime time.Time
	registry  *prometheus.Registry
	mu        sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry:  reg,
		startTime: time.Now(),
	}

	// Initialize all metrics
	r.initCompileMetrics()
	r.initSimulationMetrics()
	r.initValidationMetrics()
	r.initArtifactMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
