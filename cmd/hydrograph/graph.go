package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-hydrograph/pkg/artifact"
)

func graphCmd(a *app) *cobra.Command {
	var (
		input  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print a summary or a Graphviz rendering of a graph artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input == "" {
				input = a.cfg.ArtifactKey()
			}
			store, key := a.resolve(input)
			g, err := artifact.Load(cmd.Context(), store, key)
			if err != nil {
				return fmt.Errorf("load %s: %w", input, err)
			}

			w := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "summary", "":
				return artifact.WriteSummary(w, artifact.Summarize(g))
			case "dot":
				return artifact.WriteDOT(w, g)
			default:
				return fmt.Errorf("unknown format %q: use summary or dot", format)
			}
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "graph artifact key (default <build.dir>/<version>/<build.artifact>)")
	cmd.Flags().StringVar(&format, "format", "summary", "output format: summary or dot")
	return cmd
}
