package rules

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-hydrograph/pkg/artifact"
	"github.com/dd0wney/cluso-hydrograph/pkg/logging"
	"github.com/dd0wney/cluso-hydrograph/pkg/metrics"
	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// LoadFailureLocation is the location of the finding produced when the
// artifact cannot be loaded.
const LoadFailureLocation = "File Load"

// Config configures an Engine.
type Config struct {
	Rules   []Rule // DefaultRules when nil
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Engine evaluates a fixed list of rules against compiled graphs.
type Engine struct {
	rules   []Rule
	logger  logging.Logger
	metrics *metrics.Registry
}

// New creates an engine.
func New(config *Config) *Engine {
	if config == nil {
		config = &Config{}
	}
	rules := config.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{
		rules:   rules,
		logger:  logging.OrNop(config.Logger).With(logging.Component("rules")),
		metrics: config.Metrics,
	}
}

// Rules returns the registered rules in evaluation order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Run evaluates every rule in order and collects the findings.
func (e *Engine) Run(g *network.Graph) *Report {
	timer := logging.StartTimer(e.logger, "validation",
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()))

	report := &Report{}
	for _, rule := range e.rules {
		findings := rule.Check(g)
		for _, f := range findings {
			report.Add(f)
		}
		if len(findings) > 0 {
			e.logger.Debug("rule produced findings", logging.Rule(rule.ID()), logging.Count(len(findings)))
		}
	}

	e.finish(report)
	timer.End(logging.String("status", string(report.Status())))
	return report
}

// ValidateArtifact loads the graph stored under key and validates it. It
// never fails: a load error becomes a single INPUT_VALIDATION hard failure.
func (e *Engine) ValidateArtifact(ctx context.Context, store artifact.Store, key string) *Report {
	g, err := artifact.Load(ctx, store, key)
	if err != nil {
		e.logger.Error("failed to load graph", logging.Path(key), logging.Error(err))
		report := NewReport(Finding{
			Rule:     InputValidationID,
			Location: LoadFailureLocation,
			Message:  fmt.Sprintf("Failed to load graph from %s: %v", key, err),
			Severity: HardFailure,
		})
		e.finish(report)
		return report
	}
	return e.Run(g)
}

func (e *Engine) finish(r *Report) {
	for _, f := range r.Findings() {
		e.metrics.RecordFinding(f.Rule, f.Severity.String())
	}
	e.metrics.RecordValidation(string(r.Status()))
	e.logger.Info("validation complete",
		logging.String("status", string(r.Status())),
		logging.Int("hard_failures", len(r.HardFailures)),
		logging.Int("soft_warnings", len(r.SoftWarnings)))
}
