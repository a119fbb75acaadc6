package algorithms

import (
	"github.com/dd0wney/connectome-metrics/pkg/storage"
)

// adjacency is a dense, deduplicated view of a graph for hop-count
// traversals. Node positions follow storage.Graph.NodeIDs order. Self-loops
// are dropped and parallel edges collapse to one neighbour entry, so path
// counts are per node sequence rather than per edge.
type adjacency struct {
	ids  []uint64
	succ [][]int
}

func newAdjacency(g *storage.Graph, directed bool) *adjacency {
	ids := g.NodeIDs()
	adj := &adjacency{
		ids:  ids,
		succ: make([][]int, len(ids)),
	}

	seen := make([]map[int]bool, len(ids))
	add := func(u, v int) {
		if u == v {
			return
		}
		if seen[u] == nil {
			seen[u] = make(map[int]bool)
		}
		if seen[u][v] {
			return
		}
		seen[u][v] = true
		adj.succ[u] = append(adj.succ[u], v)
	}

	// Without direction both orientations of every edge are traversable
	undirected := !directed || !g.Directed()
	for _, e := range g.Edges() {
		u, _ := g.NodeIndex(e.FromNodeID)
		v, _ := g.NodeIndex(e.ToNodeID)
		add(u, v)
		if undirected {
			add(v, u)
		}
	}
	return adj
}

func (a *adjacency) len() int {
	return len(a.ids)
}

// bfs fills dist with hop counts from source; unreachable nodes get -1.
// The visit order is returned.
func (a *adjacency) bfs(source int, dist []int) []int {
	for i := range dist {
		dist[i] = -1
	}
	dist[source] = 0

	order := make([]int, 0, len(a.ids))
	queue := []int{source}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		order = append(order, v)
		for _, w := range a.succ[v] {
			if dist[w] < 0 {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
		}
	}
	return order
}
