package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-hydrograph/pkg/simulation"
	"github.com/dd0wney/cluso-hydrograph/pkg/telemetry"
	"github.com/dd0wney/cluso-hydrograph/pkg/validation"
)

func simulateCmd(a *app) *cobra.Command {
	var (
		input      string
		out        string
		seed       uint64
		leakNode   string
		misuseNode string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate synthetic telemetry for normal, leak and misuse scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sim := a.cfg.Simulation
			if input == "" {
				input = a.cfg.ArtifactKey()
			}
			if out == "" {
				out = a.cfg.OutputPrefix()
			}
			if cmd.Flags().Changed("seed") {
				sim.Seed = seed
			}
			if leakNode != "" {
				sim.LeakNode = leakNode
			}
			if misuseNode != "" {
				sim.MisuseNode = misuseNode
			}
			for _, id := range []string{sim.LeakNode, sim.MisuseNode} {
				if err := validation.ValidateNodeID(id); err != nil {
					return err
				}
			}

			store, key := a.resolve(input)
			g, err := simulation.LoadGraph(ctx, store, key)
			if err != nil {
				return err
			}

			params := a.cfg.Params()
			s, err := simulation.New(g, &simulation.Config{
				Root:    sim.Root,
				Seed:    sim.Seed,
				Workers: sim.Workers,
				Params:  &params,
				Logger:  a.logger,
				Metrics: a.metrics,
			})
			if err != nil {
				return err
			}

			tl := a.cfg.Timeline()
			series, err := s.RunAll(ctx, tl, simulation.DefaultScenarios(sim.LeakNode, sim.MisuseNode))
			if err != nil {
				return err
			}

			var sinks []telemetry.Sink
			if dsn := a.cfg.Telemetry.PostgresDSN; dsn != "" {
				pg, err := telemetry.NewPGSink(ctx, telemetry.PGConfig{
					DSN:      dsn,
					Table:    a.cfg.Telemetry.Table,
					MaxConns: a.cfg.Telemetry.MaxConns,
				})
				if err != nil {
					return err
				}
				defer pg.Close()
				sinks = append(sinks, pg)
			}

			outStore, prefix := a.resolveDir(out)
			exporter := telemetry.NewExporter(outStore, &telemetry.ExporterConfig{
				Prefix:  prefix,
				Sinks:   sinks,
				Logger:  a.logger,
				Metrics: a.metrics,
			})
			manifest, err := exporter.Export(ctx, series, telemetry.RunInfo{
				Version:  a.cfg.Version,
				Root:     s.Root(),
				Interval: tl.Interval,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, sc := range manifest.Scenarios {
				fmt.Fprintf(w, "%-8s %4d rows %3d labels -> %s\n", sc.Name, sc.Rows, sc.Labels, sc.File)
			}
			fmt.Fprintf(w, "run %s written to %s\n", manifest.RunID, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "graph artifact key (default <build.dir>/<version>/<build.artifact>)")
	cmd.Flags().StringVar(&out, "out", "", "output prefix (default <simulation.output_dir>/<version>)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().StringVar(&leakNode, "leak-node", "", "node receiving the leak anomaly")
	cmd.Flags().StringVar(&misuseNode, "misuse-node", "", "node receiving the misuse anomaly")
	return cmd
}
