package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-hydrograph/pkg/rules"
)

// errValidationFailed makes the process exit non-zero after the report has
// been written.
var errValidationFailed = errors.New("validation failed")

func validateCmd(a *app) *cobra.Command {
	var (
		input  string
		output string
		strict bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the topology rules against a graph artifact",
		Long: `validate loads a graph artifact, evaluates every rule and writes a JSON
report. The command fails when the status is FAIL, or WARN with --strict. An
unreadable artifact produces a FAIL report rather than an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if input == "" {
				input = a.cfg.ArtifactKey()
			}
			if output == "" {
				output = a.cfg.ReportKey()
			}
			if !cmd.Flags().Changed("strict") {
				strict = a.cfg.Validation.Strict
			}

			engine := rules.New(&rules.Config{
				Rules: []rules.Rule{
					&rules.CrossZoneFeed{},
					&rules.ElevationConsistency{
						UphillLimit:   a.cfg.Validation.UphillLimit,
						DownhillLimit: a.cfg.Validation.DownhillLimit,
					},
				},
				Logger:  a.logger,
				Metrics: a.metrics,
			})

			store, key := a.resolve(input)
			report := engine.ValidateArtifact(ctx, store, key)

			var buf bytes.Buffer
			if err := report.WriteJSON(&buf); err != nil {
				return err
			}
			outStore, outKey := a.resolve(output)
			if err := outStore.Put(ctx, outKey, buf.Bytes()); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				_, _ = w.Write(buf.Bytes())
			} else {
				fmt.Fprintln(w, rules.RenderText(report))
			}

			status := report.Status()
			if status == rules.StatusFail || (strict && status.AtLeast(rules.StatusWarn)) {
				return fmt.Errorf("%w: status %s", errValidationFailed, status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "graph artifact key (default <build.dir>/<version>/<build.artifact>)")
	cmd.Flags().StringVar(&output, "output", "", "report key (default <validation.report_dir>/<version>/<validation.report_file>)")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat WARN as failure")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the JSON report instead of the styled summary")
	return cmd
}
