package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dd0wney/cluso-hydrograph/pkg/logging"
	"github.com/dd0wney/cluso-hydrograph/pkg/metrics"
	"github.com/dd0wney/cluso-hydrograph/pkg/network"
)

// Config configures a Compiler. Both fields are optional.
type Config struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Compiler turns the five DSL input files into a network graph.
type Compiler struct {
	logger  logging.Logger
	metrics *metrics.Registry
}

// New creates a Compiler. A nil config yields a silent compiler.
func New(config *Config) *Compiler {
	if config == nil {
		config = &Config{}
	}
	return &Compiler{
		logger:  logging.OrNop(config.Logger).With(logging.Component("compiler")),
		metrics: config.Metrics,
	}
}

// CompileDir compiles the inputs under dataDir/version.
func (c *Compiler) CompileDir(ctx context.Context, dataDir, version string) (*Result, error) {
	dir := filepath.Join(dataDir, version)
	c.logger.Debug("compiling data directory", logging.Path(dir), logging.Version(version))
	return c.Compile(ctx, os.DirFS(dir))
}

// Compile runs every phase in order: topology, template library, template
// applications, deferred attributes, demands, sensors. Recoverable problems
// are collected as warnings; a malformed numeric operand aborts compilation.
func (c *Compiler) Compile(ctx context.Context, fsys fs.FS) (*Result, error) {
	timer := logging.StartTimer(c.logger, "compile")

	b := &build{
		c:         c,
		fsys:      fsys,
		g:         network.New(),
		templates: make(map[string]*Template),
	}

	phases := []struct {
		name string
		run  func() error
	}{
		{"topology", b.loadTopology},
		{"templates", b.loadTemplates},
		{"applications", b.applyTemplates},
		{"attributes", b.applyDeferred},
		{"demands", b.loadDemands},
		{"sensors", b.loadSensors},
	}

	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			timer.EndError(err)
			return nil, err
		}
		if err := p.run(); err != nil {
			timer.EndError(err)
			return nil, fmt.Errorf("compile %s: %w", p.name, err)
		}
		c.logger.Debug("phase complete",
			logging.String("phase", p.name),
			logging.Int("nodes", b.g.NodeCount()),
			logging.Int("edges", b.g.EdgeCount()),
		)
	}

	elapsed := timer.End(
		logging.Int("nodes", b.g.NodeCount()),
		logging.Int("edges", b.g.EdgeCount()),
		logging.Int("warnings", len(b.warnings)),
		logging.Int("templates", b.stats.TemplatesLoaded),
		logging.Int("applications", b.stats.Applications),
	)
	c.metrics.RecordCompile(elapsed, b.g.NodeCount(), b.g.EdgeCount())

	return &Result{Graph: b.g, Warnings: b.warnings, Stats: b.stats}, nil
}

// build is the mutable state of one compilation.
type build struct {
	c    *Compiler
	fsys fs.FS
	g    *network.Graph

	templates map[string]*Template
	deferred  []directive
	warnings  []Warning
	stats     Stats
}

// read loads and scans a whole input file. A missing file is a warning and
// contributes nothing.
func (b *build) read(name string) ([]directive, error) {
	data, err := fs.ReadFile(b.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		b.warn(name, 0, WarnMissingFile, "file not found, skipping")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return scan(name, data)
}

func (b *build) warn(file string, line int, kind, format string, args ...any) {
	w := Warning{File: file, Line: line, Kind: kind, Message: fmt.Sprintf(format, args...)}
	b.warnings = append(b.warnings, w)
	b.c.metrics.RecordCompileWarning(kind)
	b.c.logger.Warn(w.Message,
		logging.File(file),
		logging.Line(line),
		logging.String("kind", kind),
	)
}

// requireArgs reports whether d has at least n operands, warning otherwise.
func (b *build) requireArgs(d directive, n int) bool {
	if len(d.args) >= n {
		return true
	}
	b.warn(d.file, d.line, WarnMissingOperands, "%s needs %d operand(s), got %d", d.keyword, n, len(d.args))
	return false
}
