package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dd0wney/connectome-metrics/pkg/export"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		output     string
		compress   bool
		sizeMetric string
		groupBy    string
		scale      float64
	)

	cmd := &cobra.Command{
		Use:   "export <graph.yaml>",
		Short: "Write the visualization document for reducedChemical",
		Long: `Project the reducedChemical snapshot and its metrics into flat node and
edge records. Edges heavier than mean + 2 sigma are highlighted.

Writes to stdout unless -o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("compress") {
				a.cfg.Export.Compress = compress
			}
			if flags.Changed("size-metric") {
				a.cfg.Export.SizeMetric = sizeMetric
			}
			if flags.Changed("group-by") {
				a.cfg.Export.GroupBy = groupBy
			}
			if flags.Changed("scale") {
				a.cfg.Export.SizeScale = scale
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			opts, err := a.cfg.ExportOptions()
			if err != nil {
				return err
			}

			session, err := a.openSession(args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			doc, err := session.Export(opts)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if output == "" || output == "-" {
				if err := export.WriteJSON(cmd.OutOrStdout(), doc, a.cfg.Export.Compress); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				return nil
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := writeAndClose(f, doc, a.cfg.Export.Compress); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render(fmt.Sprintf(
				"exported %d nodes, %d edges (%d highlighted) to %s",
				len(doc.Nodes), len(doc.Edges), doc.Summary.Highlighted, output)))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	flags.BoolVar(&compress, "compress", false, "Snappy-frame the JSON output (overrides export.compress)")
	flags.StringVar(&sizeMetric, "size-metric", "", "betweenness, constraint or degree (overrides export.size_metric)")
	flags.StringVar(&groupBy, "group-by", "", "community or cell_class (overrides export.group_by)")
	flags.Float64Var(&scale, "scale", 0, "Node size multiplier (overrides export.size_scale)")
	return cmd
}

// writeAndClose writes doc to wc and closes it. A failed close is reported
// because it can mean the document never reached disk.
func writeAndClose(wc io.WriteCloser, doc *export.Document, compress bool) error {
	if err := export.WriteJSON(wc, doc, compress); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}
