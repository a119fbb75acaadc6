package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		topN   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <graph.yaml>",
		Short: "Clean a connectome and report its metrics",
		Long: `Build the fullChemical and reducedChemical snapshots, then compute
topology, betweenness, constraint and communities.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.openSession(args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			results, err := session.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			if !cmd.Flags().Changed("top") {
				topN = a.cfg.Analysis.TopN
			}
			renderSummary(out, results, session.Snapshots().ReducedChemical, topN)
			return nil
		},
	}

	cmd.Flags().IntVar(&topN, "top", 10, "Rows in the betweenness ranking (overrides analysis.top_n)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full results as JSON")
	return cmd
}
