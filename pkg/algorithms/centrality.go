package algorithms

import (
	"container/heap"
	"sort"

	"github.com/dd0wney/connectome-metrics/pkg/storage"
)

// BetweennessOptions configures Betweenness
type BetweennessOptions struct {
	// Directed follows edge direction. Ignored (treated as false) on an
	// undirected graph.
	Directed bool
	// Normalized divides by (n-1)(n-2), the number of ordered pairs not
	// involving the node.
	Normalized bool
}

// DefaultBetweennessOptions returns directed, normalized betweenness
func DefaultBetweennessOptions() BetweennessOptions {
	return BetweennessOptions{Directed: true, Normalized: true}
}

// brandes runs one BFS per source and back-propagates dependencies. The
// returned scores are raw: every ordered (s,t) pair contributes, so on an
// undirected traversal each unordered pair is counted twice.
func brandes(adj *adjacency) []float64 {
	n := adj.len()
	betweenness := make([]float64, n)

	sigma := make([]float64, n)
	dist := make([]int, n)
	delta := make([]float64, n)
	predecessors := make([][]int, n)

	for source := 0; source < n; source++ {
		for i := 0; i < n; i++ {
			sigma[i] = 0
			delta[i] = 0
			predecessors[i] = predecessors[i][:0]
		}
		sigma[source] = 1

		stack := adj.bfs(source, dist)

		// Count shortest paths in BFS order; dist is final at this point
		for _, v := range stack {
			for _, w := range adj.succ[v] {
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		// Back-propagation: tied shortest paths split credit by sigma
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1.0 + delta[w])
			}
			if w != source {
				betweenness[w] += delta[w]
			}
		}
	}

	return betweenness
}

// Betweenness computes betweenness centrality for all nodes: the share of
// shortest paths between other node pairs that pass through each node.
// Normalized directed values lie in [0,1].
func Betweenness(g *storage.Graph, opts BetweennessOptions) (map[uint64]float64, error) {
	adj := newAdjacency(g, opts.Directed)
	raw := brandes(adj)
	n := adj.len()

	scale := 1.0
	directed := opts.Directed && g.Directed()
	switch {
	case opts.Normalized && n > 2:
		scale = 1.0 / float64((n-1)*(n-2))
	case !opts.Normalized && !directed:
		scale = 0.5
	}

	result := make(map[uint64]float64, n)
	for i, id := range adj.ids {
		result[id] = raw[i] * scale
	}
	return result, nil
}

// DegreeCentrality computes (in-degree + out-degree) / (n-1) for every node.
func DegreeCentrality(g *storage.Graph) (map[uint64]float64, error) {
	ids := g.NodeIDs()
	degree := make(map[uint64]float64, len(ids))

	for _, id := range ids {
		if len(ids) > 1 {
			degree[id] = float64(g.Degree(id)) / float64(len(ids)-1)
		} else {
			degree[id] = 0.0
		}
	}

	return degree, nil
}

// RankedNode holds a node with its score
type RankedNode struct {
	NodeID uint64  `json:"node_id"`
	Score  float64 `json:"score"`
}

// rankedNodeHeap implements a min-heap for RankedNode by score.
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int           { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool { return h[i].Score < h[j].Score }
func (h rankedNodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// TopNodes returns the n highest scores, descending, ties by ascending node ID.
func TopNodes(scores map[uint64]float64, n int) []RankedNode {
	if n <= 0 {
		return nil
	}

	// Visit in ID order so equal scores at the heap boundary resolve the same
	// way on every run
	ids := make([]uint64, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	h := make(rankedNodeHeap, 0, n)
	heap.Init(&h)

	for _, id := range ids {
		rn := RankedNode{NodeID: id, Score: scores[id]}
		if h.Len() < n {
			heap.Push(&h, rn)
		} else if rn.Score > h[0].Score {
			heap.Pop(&h)
			heap.Push(&h, rn)
		}
	}

	result := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedNode)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].NodeID < result[j].NodeID
	})

	return result
}
