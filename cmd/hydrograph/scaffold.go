package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-hydrograph/pkg/artifact"
	"github.com/dd0wney/cluso-hydrograph/pkg/rules"
	"github.com/dd0wney/cluso-hydrograph/pkg/scaffold"
	"github.com/dd0wney/cluso-hydrograph/pkg/validation"
)

func scaffoldCmd(a *app) *cobra.Command {
	var (
		version string
		tower   = scaffold.DefaultTower()
	)

	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Generate a DSL dataset for a synthetic high-rise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if version == "" {
				version = a.cfg.Version
			}
			if err := validation.ValidateVersion(version); err != nil {
				return err
			}
			store := artifact.Instrument(artifact.NewLocalStore(a.cfg.Data.Dir), "local", a.metrics)
			keys, err := scaffold.Write(cmd.Context(), store, version, tower)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, k := range keys {
				fmt.Fprintf(w, "wrote %s/%s\n", a.cfg.Data.Dir, k)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "dataset version to create (default from config)")
	cmd.Flags().IntVar(&tower.Floors, "floors", tower.Floors, fmt.Sprintf("number of floors (1-%d)", scaffold.MaxFloors))
	cmd.Flags().Float64Var(&tower.FloorHeight, "floor-height", tower.FloorHeight, "floor height in meters")
	return cmd
}

func mockCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Write a small graph artifact with known rule violations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				output = a.cfg.BuildKey("mock_graph.bin")
			}
			store, key := a.resolve(output)
			if err := artifact.Save(cmd.Context(), store, key, rules.MockGraph()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mock graph written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "artifact key (default <build.dir>/<version>/mock_graph.bin)")
	return cmd
}
