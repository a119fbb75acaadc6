// Package cleaning derives analysis-ready snapshots from a raw connectome.
//
// Every function here is pure: it reads an immutable *storage.Graph and
// returns a new one. Inputs are never modified.
package cleaning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dd0wney/connectome-metrics/pkg/storage"
	"golang.org/x/exp/slices"
)

// ErrUnknownMergePolicy is returned when a merge policy name cannot be parsed
var ErrUnknownMergePolicy = errors.New("unknown merge policy")

// MergePolicy decides the weight of an edge collapsed from parallel edges.
type MergePolicy int

const (
	// MergeFirst keeps the weight of the first edge in load order and drops
	// the others. Lossy and order dependent, but matches the reference
	// analysis this pipeline reproduces.
	MergeFirst MergePolicy = iota
	// MergeSum adds the weights of all parallel edges
	MergeSum
	// MergeMax keeps the largest weight
	MergeMax
)

// String returns the configuration name of the policy
func (p MergePolicy) String() string {
	switch p {
	case MergeFirst:
		return "first"
	case MergeSum:
		return "sum"
	case MergeMax:
		return "max"
	default:
		return fmt.Sprintf("MergePolicy(%d)", int(p))
	}
}

// ParseMergePolicy converts a configuration name to a MergePolicy
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch strings.ToLower(s) {
	case "first", "":
		return MergeFirst, nil
	case "sum":
		return MergeSum, nil
	case "max":
		return MergeMax, nil
	default:
		return MergeFirst, fmt.Errorf("%w: %q", ErrUnknownMergePolicy, s)
	}
}

// DropElectrical keeps only chemical synapses.
func DropElectrical(g *storage.Graph) (*storage.Graph, error) {
	return filterEdges(g, func(e *storage.Edge) bool {
		return e.SynapseType == storage.SynapseChemical
	})
}

// DropLowWeight removes edges whose weight is less than or equal to threshold.
func DropLowWeight(g *storage.Graph, threshold float64) (*storage.Graph, error) {
	return filterEdges(g, func(e *storage.Edge) bool {
		return e.Weight > threshold
	})
}

func filterEdges(g *storage.Graph, keep func(*storage.Edge) bool) (*storage.Graph, error) {
	all := g.Edges()
	edges := make([]storage.Edge, 0, len(all))
	for i := range all {
		if keep(&all[i]) {
			edges = append(edges, all[i])
		}
	}
	return storage.Load(g.Nodes(), edges, g.Directed())
}

// Simplify removes self-loops and collapses parallel edges that share a
// direction into one edge. The surviving edge keeps the ID, synapse type and
// attributes of the first occurrence; its weight follows policy.
//
// On an undirected graph u-v and v-u are the same connection and collapse
// together.
func Simplify(g *storage.Graph, policy MergePolicy) (*storage.Graph, error) {
	if policy != MergeFirst && policy != MergeSum && policy != MergeMax {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMergePolicy, policy)
	}

	type pair struct{ from, to uint64 }

	all := g.Edges()
	edges := make([]storage.Edge, 0, len(all))
	seen := make(map[pair]int, len(all))

	for _, e := range all {
		if e.IsSelfLoop() {
			continue
		}
		key := pair{e.FromNodeID, e.ToNodeID}
		if !g.Directed() && key.from > key.to {
			key.from, key.to = key.to, key.from
		}

		pos, dup := seen[key]
		if !dup {
			seen[key] = len(edges)
			edges = append(edges, e)
			continue
		}

		switch policy {
		case MergeSum:
			edges[pos].Weight += e.Weight
		case MergeMax:
			if e.Weight > edges[pos].Weight {
				edges[pos].Weight = e.Weight
			}
		}
	}

	return storage.Load(g.Nodes(), edges, g.Directed())
}

// RemoveIsolates drops nodes with no incident edge. Nodes in small
// disconnected components are kept as long as they have a neighbour; this is
// not giant-component extraction.
func RemoveIsolates(g *storage.Graph) (*storage.Graph, error) {
	all := g.Nodes()
	nodes := make([]storage.Node, 0, len(all))
	for _, n := range all {
		if g.Degree(n.ID) > 0 {
			nodes = append(nodes, n)
		}
	}
	return storage.Load(nodes, g.Edges(), g.Directed())
}

// StripAttributes removes metadata attributes by name from every node and
// edge. The neurotransmitter core field is cleared when named; other core
// fields carry structure and cannot be stripped.
func StripAttributes(g *storage.Graph, names ...string) (*storage.Graph, error) {
	nodes := g.Nodes()
	for i := range nodes {
		if slices.Contains(names, storage.AttrNeurotransmitter) {
			nodes[i].Neurotransmitter = ""
		}
		nodes[i].Attributes = stripped(nodes[i].Attributes, names)
	}

	edges := g.Edges()
	for i := range edges {
		edges[i].Attributes = stripped(edges[i].Attributes, names)
	}

	return storage.Load(nodes, edges, g.Directed())
}

func stripped(attrs map[string]storage.Value, names []string) map[string]storage.Value {
	if len(attrs) == 0 {
		return attrs
	}
	out := make(map[string]storage.Value, len(attrs))
	for k, v := range attrs {
		if !slices.Contains(names, k) {
			out[k] = v
		}
	}
	return out
}
