package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-hydrograph/pkg/artifact"
	"github.com/dd0wney/cluso-hydrograph/pkg/logging"
	"github.com/dd0wney/cluso-hydrograph/pkg/metrics"
	"github.com/dd0wney/cluso-hydrograph/pkg/simulation"
)

// Sink receives every exported series in addition to the CSV files.
type Sink interface {
	Name() string
	Write(ctx context.Context, runID uuid.UUID, s *simulation.Series) (int64, error)
}

// ExporterConfig configures an Exporter.
type ExporterConfig struct {
	Prefix string // key prefix inside the store
	Sinks  []Sink

	Logger  logging.Logger
	Metrics *metrics.Registry
	Now     func() time.Time
}

// Exporter writes run outputs (one CSV per scenario, labels.json and
// manifest.json) to an artifact store.
type Exporter struct {
	store   artifact.Store
	prefix  string
	sinks   []Sink
	logger  logging.Logger
	metrics *metrics.Registry
	now     func() time.Time
}

// NewExporter creates an exporter writing to store.
func NewExporter(store artifact.Store, config *ExporterConfig) *Exporter {
	if config == nil {
		config = &ExporterConfig{}
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Exporter{
		store:   store,
		prefix:  config.Prefix,
		sinks:   config.Sinks,
		logger:  logging.OrNop(config.Logger).With(logging.Component("telemetry")),
		metrics: config.Metrics,
		now:     now,
	}
}

// RunInfo is run-level metadata copied into the manifest.
type RunInfo struct {
	Version  string
	Root     string
	Interval time.Duration
}

func (e *Exporter) key(name string) string {
	if e.prefix == "" {
		return name
	}
	return path.Join(e.prefix, name)
}

// Export writes all series and returns the manifest it stored. Labels from
// every series are concatenated in series order.
func (e *Exporter) Export(ctx context.Context, series []*simulation.Series, info RunInfo) (*Manifest, error) {
	m := &Manifest{
		RunID:     uuid.New(),
		CreatedAt: e.now().UTC(),
		Version:   info.Version,
		Root:      info.Root,
		Interval:  info.Interval.String(),
		Scenarios: make([]ScenarioEntry, 0, len(series)),
	}
	for _, sink := range e.sinks {
		m.Sinks = append(m.Sinks, sink.Name())
	}
	logger := e.logger.With(logging.String("run_id", m.RunID.String()))

	var labels []simulation.Label
	var buf bytes.Buffer
	for _, s := range series {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf.Reset()
		if err := WriteCSV(&buf, s); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Scenario, err)
		}
		file := FileName(s.Scenario)
		if err := e.store.Put(ctx, e.key(file), buf.Bytes()); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Scenario, err)
		}
		e.metrics.RecordTelemetryRows("csv", len(s.Rows))

		for _, sink := range e.sinks {
			n, err := sink.Write(ctx, m.RunID, s)
			if err != nil {
				return nil, fmt.Errorf("sink %s: scenario %s: %w", sink.Name(), s.Scenario, err)
			}
			e.metrics.RecordTelemetryRows(sink.Name(), int(n))
		}

		labels = append(labels, s.Labels...)
		m.Scenarios = append(m.Scenarios, ScenarioEntry{
			Name:    s.Scenario,
			File:    file,
			Seed:    s.Seed,
			Rows:    len(s.Rows),
			Labels:  len(s.Labels),
			Summary: simulation.Summarize(s),
		})
		logger.Info("scenario exported",
			logging.Scenario(s.Scenario),
			logging.File(file),
			logging.Count(len(s.Rows)))
	}

	buf.Reset()
	if err := WriteLabels(&buf, labels); err != nil {
		return nil, err
	}
	if err := e.store.Put(ctx, e.key(LabelsFile), buf.Bytes()); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := e.store.Put(ctx, e.key(ManifestFile), data); err != nil {
		return nil, err
	}

	logger.Info("run exported",
		logging.Int("scenarios", len(m.Scenarios)),
		logging.Int("labels", len(labels)))
	return m, nil
}
