package commands

import (
	"fmt"

	"github.com/dd0wney/connectome-metrics/pkg/cleaning"
	"github.com/dd0wney/connectome-metrics/pkg/loader"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <graph.yaml>",
		Short: "Check a graph document and report snapshot sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loader.LoadFile(args[0], a.logger)
			if err != nil {
				return err
			}

			opts, err := a.cfg.CleaningOptions(a.logger)
			if err != nil {
				return err
			}
			opts.Metrics = a.metrics
			snapshots, err := cleaning.BuildSnapshots(g, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, successStyle.Render("document is valid"))
			fmt.Fprintln(out, row("source", fmt.Sprintf("%d nodes, %d edges", g.NodeCount(), g.EdgeCount())))
			for _, name := range []cleaning.SnapshotName{cleaning.FullChemical, cleaning.ReducedChemical} {
				s, _ := snapshots.Get(name)
				fmt.Fprintln(out, row(string(name), fmt.Sprintf("%d nodes, %d edges", s.NodeCount(), s.EdgeCount())))
			}
			return nil
		},
	}
}
