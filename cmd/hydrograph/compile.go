package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-hydrograph/pkg/artifact"
	"github.com/dd0wney/cluso-hydrograph/pkg/compiler"
	"github.com/dd0wney/cluso-hydrograph/pkg/logging"
	"github.com/dd0wney/cluso-hydrograph/pkg/validation"
)

func compileCmd(a *app) *cobra.Command {
	var (
		version string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a DSL dataset into a graph artifact",
		Long: `compile reads WaterSystem.txt, Floor_Templates.txt, Template_Application.txt,
Demand_Profiles.txt and Sensors.txt from <data.dir>/<version>, expands templates,
attaches overlays and stores the graph artifact with a JSON summary and a DOT
rendering next to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if version != "" {
				if err := validation.ValidateVersion(version); err != nil {
					return err
				}
				a.cfg.Version = version
			}
			if output == "" {
				output = a.cfg.ArtifactKey()
			}

			c := compiler.New(&compiler.Config{Logger: a.logger, Metrics: a.metrics})
			res, err := c.CompileDir(ctx, a.cfg.Data.Dir, a.cfg.Version)
			if err != nil {
				return err
			}

			store, key := a.resolve(output)
			if err := artifact.Save(ctx, store, key, res.Graph); err != nil {
				return fmt.Errorf("save artifact: %w", err)
			}

			summary := artifact.Summarize(res.Graph)
			var buf bytes.Buffer
			if a.cfg.Build.Summary != "" {
				if err := artifact.WriteSummary(&buf, summary); err != nil {
					return err
				}
				if err := a.store.Put(ctx, a.cfg.BuildKey(a.cfg.Build.Summary), buf.Bytes()); err != nil {
					return fmt.Errorf("save summary: %w", err)
				}
			}
			if a.cfg.Build.DOT != "" {
				buf.Reset()
				if err := artifact.WriteDOT(&buf, res.Graph); err != nil {
					return err
				}
				if err := a.store.Put(ctx, a.cfg.BuildKey(a.cfg.Build.DOT), buf.Bytes()); err != nil {
					return fmt.Errorf("save dot: %w", err)
				}
			}

			a.logger.Info("graph compiled",
				logging.Version(a.cfg.Version),
				logging.Path(output),
				logging.Int("warnings", len(res.Warnings)))

			out := cmd.OutOrStdout()
			for _, w := range res.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			fmt.Fprintf(out, "compiled %s: %d nodes, %d edges, %d templates, %d applications, %d warnings -> %s\n",
				a.cfg.Version, summary.Nodes, summary.Edges, res.Stats.TemplatesLoaded, res.Stats.Applications,
				len(res.Warnings), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "dataset version to compile (default from config)")
	cmd.Flags().StringVar(&output, "output", "", "artifact key (default <build.dir>/<version>/<build.artifact>)")
	return cmd
}
