package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-hydrograph/pkg/artifact"
	"github.com/dd0wney/cluso-hydrograph/pkg/config"
	"github.com/dd0wney/cluso-hydrograph/pkg/logging"
	"github.com/dd0wney/cluso-hydrograph/pkg/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// execute runs one command line. Metrics are flushed even when the command
// fails.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	root, a := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	defer func() {
		if ferr := a.flushMetrics(); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}()
	return root.ExecuteContext(ctx)
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	metricsFile string
}

// app holds what a subcommand needs once configuration is loaded.
type app struct {
	flags   globalFlags
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	store   artifact.Store
	backend string
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	flags := &a.flags

	root := &cobra.Command{
		Use:   "hydrograph",
		Short: "Water distribution network compiler, simulator and validator",
		Long: `hydrograph compiles a line-oriented description of a building's water
network into a graph artifact, generates synthetic pressure and flow telemetry
under normal, leak and misuse scenarios, and validates the topology against
engineering rules.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context(), a.flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to the YAML configuration (default "+config.DefaultFile+")")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log line format: json or text")
	root.PersistentFlags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the command")

	root.AddCommand(compileCmd(a))
	root.AddCommand(simulateCmd(a))
	root.AddCommand(validateCmd(a))
	root.AddCommand(graphCmd(a))
	root.AddCommand(scaffoldCmd(a))
	root.AddCommand(mockCmd(a))
	return root, a
}

func (a *app) init(ctx context.Context, flags globalFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger := logging.NewStreamLogger(os.Stderr, logging.ParseLevel(cfg.Logging.Level), logging.ParseFormat(cfg.Logging.Format))
	logging.SetDefaultLogger(logger)
	a.logger = logger
	a.metrics = metrics.NewRegistry()

	var store artifact.Store
	switch cfg.Store.Backend {
	case "s3":
		s3Store, err := artifact.NewS3Store(ctx, cfg.S3())
		if err != nil {
			return err
		}
		store = s3Store
	default:
		store = artifact.NewLocalStore(cfg.Store.Local.Root)
	}
	a.backend = cfg.Store.Backend
	a.store = artifact.Instrument(store, a.backend, a.metrics)
	return nil
}

// flushMetrics writes the registry to --metrics-file, or the configured
// textfile path. It is a no-op when init never ran.
func (a *app) flushMetrics() error {
	path := a.flags.metricsFile
	if path == "" && a.cfg != nil {
		path = a.cfg.Metrics.TextfilePath
	}
	if path == "" || a.metrics == nil {
		return nil
	}
	if err := a.metrics.WriteTextfile(path); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// resolve maps a user supplied key to a store. With the local backend an
// absolute path is served by a store rooted at its directory.
func (a *app) resolve(key string) (artifact.Store, string) {
	if a.backend == "local" && filepath.IsAbs(key) {
		return artifact.Instrument(artifact.NewLocalStore(filepath.Dir(key)), a.backend, a.metrics), filepath.Base(key)
	}
	return a.store, key
}

// resolveDir is resolve for key prefixes.
func (a *app) resolveDir(prefix string) (artifact.Store, string) {
	if a.backend == "local" && filepath.IsAbs(prefix) {
		return artifact.Instrument(artifact.NewLocalStore(prefix), a.backend, a.metrics), ""
	}
	return a.store, prefix
}
