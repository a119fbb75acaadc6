package algorithms

import (
	"github.com/dd0wney/connectome-metrics/pkg/storage"
)

// TopologyResult holds reachability-based graph scalars
type TopologyResult struct {
	NodeCount int
	// AverageDistance is the mean hop count over ordered pairs with a path
	AverageDistance float64
	// Diameter is the longest finite shortest path, in hops
	Diameter int
	// ReachablePairs counts ordered pairs (u,v), u != v, with a path
	ReachablePairs int
	// SkippedPairs counts ordered pairs without a path. They are excluded
	// from both scalars rather than treated as infinite or zero.
	SkippedPairs int
}

// Topology runs one BFS per node and derives average distance and diameter.
// Edges are followed in their direction when the graph is directed.
// A graph with nodes but no reachable pair yields zero for both scalars.
func Topology(g *storage.Graph) (*TopologyResult, error) {
	n := g.NodeCount()
	if n == 0 {
		return nil, ErrEmptyGraph
	}

	adj := newAdjacency(g, true)
	result := &TopologyResult{NodeCount: n}
	dist := make([]int, n)
	total := 0

	for s := 0; s < n; s++ {
		adj.bfs(s, dist)
		for t, d := range dist {
			if t == s {
				continue
			}
			if d < 0 {
				result.SkippedPairs++
				continue
			}
			result.ReachablePairs++
			total += d
			if d > result.Diameter {
				result.Diameter = d
			}
		}
	}

	if result.ReachablePairs > 0 {
		result.AverageDistance = float64(total) / float64(result.ReachablePairs)
	}
	return result, nil
}

// AverageDistance returns the mean unweighted shortest-path length over all
// ordered pairs that are connected by a path.
func AverageDistance(g *storage.Graph) (float64, error) {
	t, err := Topology(g)
	if err != nil {
		return 0, err
	}
	return t.AverageDistance, nil
}

// Diameter returns the maximum finite shortest-path length in hops.
func Diameter(g *storage.Graph) (int, error) {
	t, err := Topology(g)
	if err != nil {
		return 0, err
	}
	return t.Diameter, nil
}

// IsConnected checks whether every node is reachable from the first one when
// edges are treated as undirected (weak connectivity). Empty and single-node
// graphs are connected.
func IsConnected(g *storage.Graph) bool {
	n := g.NodeCount()
	if n <= 1 {
		return true
	}
	adj := newAdjacency(g, false)
	dist := make([]int, n)
	return len(adj.bfs(0, dist)) == n
}
