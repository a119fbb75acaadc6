package analysis

import (
	"sort"

	"github.com/dd0wney/connectome-metrics/pkg/algorithms"
	"github.com/dd0wney/connectome-metrics/pkg/storage"
)

// SnapshotSummary is the size of one derived graph
type SnapshotSummary struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

func summarize(g *storage.Graph) SnapshotSummary {
	return SnapshotSummary{Nodes: g.NodeCount(), Edges: g.EdgeCount()}
}

// Results joins every metric of one run. Node-level maps are keyed by the
// node IDs of reducedChemical.
type Results struct {
	RunID           string                                `json:"run_id"`
	FullChemical    SnapshotSummary                       `json:"full_chemical"`
	ReducedChemical SnapshotSummary                       `json:"reduced_chemical"`
	Topology        *algorithms.TopologyResult            `json:"topology"`
	Betweenness     map[uint64]float64                    `json:"betweenness"`
	Constraint      map[uint64]algorithms.ConstraintScore `json:"constraint"`
	Degree          map[uint64]float64                    `json:"degree"`
	Communities     *algorithms.CommunityDetectionResult  `json:"communities"`
	Components      *algorithms.CommunityDetectionResult  `json:"components"`

	nodes []storage.Node
}

// NodeGroup collects node-level metrics for a set of nodes. Values are in
// ascending node ID order; undefined constraints are counted, not listed.
type NodeGroup struct {
	Nodes               []uint64  `json:"nodes"`
	Betweenness         []float64 `json:"betweenness"`
	Degree              []float64 `json:"degree"`
	Constraint          []float64 `json:"constraint"`
	UndefinedConstraint int       `json:"undefined_constraint"`
}

// TopBetweenness returns the n most central nodes, ties by ascending ID
func (r *Results) TopBetweenness(n int) []algorithms.RankedNode {
	return algorithms.TopNodes(r.Betweenness, n)
}

// LargestComponent returns the node count of the biggest weak component
func (r *Results) LargestComponent() int {
	largest := 0
	for _, c := range r.Components.Communities {
		if c.Size > largest {
			largest = c.Size
		}
	}
	return largest
}

// ByRole groups node metrics by neuron role
func (r *Results) ByRole() map[storage.Role]*NodeGroup {
	groups := r.groupBy(func(n *storage.Node) string { return string(n.Role) })
	out := make(map[storage.Role]*NodeGroup, len(groups))
	for k, g := range groups {
		out[storage.Role(k)] = g
	}
	return out
}

// ByCellClass groups node metrics by cell class
func (r *Results) ByCellClass() map[string]*NodeGroup {
	return r.groupBy(func(n *storage.Node) string { return n.CellClass })
}

// ByCommunity groups node metrics by community ID
func (r *Results) ByCommunity() map[int]*NodeGroup {
	out := make(map[int]*NodeGroup, len(r.Communities.Communities))
	for _, c := range r.Communities.Communities {
		group := &NodeGroup{}
		for _, id := range c.Nodes {
			r.appendNode(group, id)
		}
		out[c.ID] = group
	}
	return out
}

func (r *Results) groupBy(key func(*storage.Node) string) map[string]*NodeGroup {
	nodes := make([]storage.Node, len(r.nodes))
	copy(nodes, r.nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	groups := make(map[string]*NodeGroup)
	for i := range nodes {
		k := key(&nodes[i])
		group, ok := groups[k]
		if !ok {
			group = &NodeGroup{}
			groups[k] = group
		}
		r.appendNode(group, nodes[i].ID)
	}
	return groups
}

func (r *Results) appendNode(group *NodeGroup, id uint64) {
	group.Nodes = append(group.Nodes, id)
	group.Betweenness = append(group.Betweenness, r.Betweenness[id])
	group.Degree = append(group.Degree, r.Degree[id])
	if v, ok := r.Constraint[id].Float(); ok {
		group.Constraint = append(group.Constraint, v)
	} else {
		group.UndefinedConstraint++
	}
}
