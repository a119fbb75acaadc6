package algorithms

import (
	"github.com/dd0wney/connectome-metrics/pkg/storage"
)

// ConnectedComponents finds the weakly connected components of g. The
// cleaning pipeline only removes isolated nodes, so a snapshot may still hold
// several components; this reports how many.
func ConnectedComponents(g *storage.Graph) *CommunityDetectionResult {
	adj := newAdjacency(g, false)
	n := adj.len()

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	dist := make([]int, n)

	for start := 0; start < n; start++ {
		if labels[start] >= 0 {
			continue
		}
		for _, v := range adj.bfs(start, dist) {
			labels[v] = start
		}
	}

	return buildResult(Symmetrize(g), labels, 0, nil, 0, false)
}

// LargestComponentSize returns the node count of the biggest weak component
func LargestComponentSize(g *storage.Graph) int {
	largest := 0
	for _, c := range ConnectedComponents(g).Communities {
		if c.Size > largest {
			largest = c.Size
		}
	}
	return largest
}
