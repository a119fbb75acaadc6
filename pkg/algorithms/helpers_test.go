package algorithms

import (
	"testing"

	"github.com/dd0wney/connectome-metrics/pkg/storage"
)

// buildGraph creates a graph with nodes 1..n and chemical edges given as
// {from, to, weight} triples.
func buildGraph(t *testing.T, n int, directed bool, edges ...[3]float64) *storage.Graph {
	t.Helper()
	g, err := graphOf(n, directed, edges...)
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	return g
}

func graphOf(n int, directed bool, edges ...[3]float64) (*storage.Graph, error) {
	nodes := make([]storage.Node, n)
	for i := range nodes {
		nodes[i] = storage.Node{ID: uint64(i + 1), CellName: "n", SomaPos: 0.5, Role: storage.RoleInter}
	}
	es := make([]storage.Edge, len(edges))
	for i, e := range edges {
		es[i] = storage.Edge{
			FromNodeID:  uint64(e[0]),
			ToNodeID:    uint64(e[1]),
			Weight:      e[2],
			SynapseType: storage.SynapseChemical,
		}
	}
	return storage.Load(nodes, es, directed)
}

// randomEdges decodes bytes into edge triples over nodes 1..n
func randomEdges(n int, raw []uint8) [][3]float64 {
	var edges [][3]float64
	for i := 0; i+2 < len(raw); i += 3 {
		edges = append(edges, [3]float64{
			float64(int(raw[i])%n + 1),
			float64(int(raw[i+1])%n + 1),
			float64(raw[i+2]%4 + 1),
		})
	}
	return edges
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
