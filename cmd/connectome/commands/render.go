package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dd0wney/connectome-metrics/pkg/analysis"
	"github.com/dd0wney/connectome-metrics/pkg/storage"
	"golang.org/x/exp/slices"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF99")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2).
			MarginRight(2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Width(20)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

func row(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

func box(title string, rows ...string) string {
	return boxStyle.Render(headerStyle.Render(title) + "\n" + strings.Join(rows, "\n"))
}

// renderSummary writes the analysis report. Cell names come from the
// reducedChemical snapshot.
func renderSummary(w io.Writer, r *analysis.Results, g *storage.Graph, topN int) {
	fmt.Fprintln(w, titleStyle.Render("CONNECTOME ANALYSIS"))
	fmt.Fprintln(w, mutedStyle.Render("run "+r.RunID))
	fmt.Fprintln(w)

	snapshots := box("Snapshots",
		row("fullChemical", fmt.Sprintf("%d nodes, %d edges", r.FullChemical.Nodes, r.FullChemical.Edges)),
		row("reducedChemical", fmt.Sprintf("%d nodes, %d edges", r.ReducedChemical.Nodes, r.ReducedChemical.Edges)),
	)
	topology := box("Topology (fullChemical)",
		row("average distance", fmt.Sprintf("%.4f", r.Topology.AverageDistance)),
		row("diameter", r.Topology.Diameter),
		row("reachable pairs", r.Topology.ReachablePairs),
		row("skipped pairs", r.Topology.SkippedPairs),
	)
	communityRows := []string{
		row("communities", len(r.Communities.Communities)),
		row("modularity", fmt.Sprintf("%.4f", r.Communities.Modularity)),
		row("merges", r.Communities.Merges),
		row("components", len(r.Components.Communities)),
		row("largest component", r.LargestComponent()),
	}
	if r.Communities.NonConvergent {
		communityRows = append(communityRows, warnStyle.Render("no merge raised modularity"))
	}
	communities := box("Communities (reducedChemical)", communityRows...)

	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, snapshots, topology, communities))
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Top %d betweenness", topN)))
	for i, rn := range r.TopBetweenness(topN) {
		fmt.Fprintf(w, "  %2d. %-10s %.6f\n", i+1, cellName(g, rn.NodeID), rn.Score)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render("By role"))
	groups := r.ByRole()
	roles := make([]string, 0, len(groups))
	for role := range groups {
		roles = append(roles, string(role))
	}
	slices.Sort(roles)
	for _, role := range roles {
		group := groups[storage.Role(role)]
		fmt.Fprintf(w, "  %-8s %3d nodes  mean betweenness %.6f  mean constraint %s\n",
			role, len(group.Nodes), mean(group.Betweenness), meanOrNA(group.Constraint))
	}

	undefined := 0
	for _, c := range r.Constraint {
		if !c.Defined {
			undefined++
		}
	}
	if undefined > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("constraint undefined for %d node(s) with fewer than two ties", undefined)))
	}
}

func cellName(g *storage.Graph, id uint64) string {
	n, err := g.Node(id)
	if err != nil || n.CellName == "" {
		return fmt.Sprintf("#%d", id)
	}
	return n.CellName
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanOrNA(values []float64) string {
	if len(values) == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", mean(values))
}
