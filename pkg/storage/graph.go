package storage

import (
	"fmt"
	"math"
	"sort"
)

// Graph is an immutable directed (or undirected) weighted multigraph of
// neurons. It is built once by Load and never mutated; every accessor hands
// out copies so snapshots derived from it stay independent.
type Graph struct {
	directed  bool
	nodes     []Node // ascending ID order
	nodeIndex map[uint64]int
	edges     []Edge // load order, which Simplify relies on
	edgeIndex map[uint64]int
	out       [][]int // node position -> edge positions
	in        [][]int
}

// Load validates nodes and edges and builds a Graph.
//
// Edges with a zero ID get sequential IDs after the largest explicit one, in
// input order. Any edge naming an unknown node fails with
// ErrInvalidGraphReference.
func Load(nodes []Node, edges []Edge, directed bool) (*Graph, error) {
	g := &Graph{
		directed:  directed,
		nodes:     make([]Node, 0, len(nodes)),
		nodeIndex: make(map[uint64]int, len(nodes)),
		edges:     make([]Edge, 0, len(edges)),
		edgeIndex: make(map[uint64]int, len(edges)),
	}

	seen := make(map[uint64]bool, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		if seen[n.ID] {
			return nil, NewError("load").Node(n.ID).Cause(ErrDuplicateNode).Err()
		}
		seen[n.ID] = true
		if err := validateNode(n); err != nil {
			return nil, err
		}
		g.nodes = append(g.nodes, *n.Clone())
	}
	sort.Slice(g.nodes, func(i, j int) bool { return g.nodes[i].ID < g.nodes[j].ID })
	for i, n := range g.nodes {
		g.nodeIndex[n.ID] = i
	}

	var maxEdgeID uint64
	for i := range edges {
		if edges[i].ID > maxEdgeID {
			maxEdgeID = edges[i].ID
		}
	}
	nextEdgeID := maxEdgeID + 1

	g.out = make([][]int, len(g.nodes))
	g.in = make([][]int, len(g.nodes))
	for i := range edges {
		e := *edges[i].Clone()
		if e.ID == 0 {
			e.ID = nextEdgeID
			nextEdgeID++
		}
		if _, dup := g.edgeIndex[e.ID]; dup {
			return nil, NewError("load").Edge(e.ID).Cause(ErrDuplicateEdge).Err()
		}
		if err := validateEdge(&e); err != nil {
			return nil, err
		}
		from, ok := g.nodeIndex[e.FromNodeID]
		if !ok {
			return nil, NewError("load").Edge(e.ID).
				Context(fmt.Sprintf("from node %d", e.FromNodeID)).
				Cause(ErrInvalidGraphReference).Err()
		}
		to, ok := g.nodeIndex[e.ToNodeID]
		if !ok {
			return nil, NewError("load").Edge(e.ID).
				Context(fmt.Sprintf("to node %d", e.ToNodeID)).
				Cause(ErrInvalidGraphReference).Err()
		}

		pos := len(g.edges)
		g.edges = append(g.edges, e)
		g.edgeIndex[e.ID] = pos
		g.out[from] = append(g.out[from], pos)
		g.in[to] = append(g.in[to], pos)
	}

	return g, nil
}

func validateNode(n *Node) error {
	if !n.Role.Valid() {
		return NewError("load").Node(n.ID).Field(AttrRole).
			Context(fmt.Sprintf("unknown role %q", n.Role)).Cause(ErrInvalidAttribute).Err()
	}
	if math.IsNaN(n.SomaPos) || n.SomaPos < 0 || n.SomaPos > 1 {
		return NewError("load").Node(n.ID).Field(AttrSomaPos).
			Context(fmt.Sprintf("%g outside [0,1]", n.SomaPos)).Cause(ErrInvalidAttribute).Err()
	}
	return validateExtensions(NewError("load").Node(n.ID), n.Attributes)
}

func validateEdge(e *Edge) error {
	if !e.SynapseType.Valid() {
		return NewError("load").Edge(e.ID).Field(AttrSynapseType).
			Context(fmt.Sprintf("unknown synapse type %q", e.SynapseType)).Cause(ErrInvalidAttribute).Err()
	}
	if math.IsNaN(e.Weight) || e.Weight < 0 {
		return NewError("load").Edge(e.ID).Field(AttrWeight).Cause(ErrNegativeWeight).Err()
	}
	return validateExtensions(NewError("load").Edge(e.ID), e.Attributes)
}

func validateExtensions(b *ErrorBuilder, attrs map[string]Value) error {
	if len(attrs) > MaxExtensionAttributes {
		return b.Context(fmt.Sprintf("%d extension attributes exceed limit %d", len(attrs), MaxExtensionAttributes)).
			Cause(ErrInvalidAttribute).Err()
	}
	for key := range attrs {
		if key == "" || isCoreAttribute(key) {
			return b.Field(key).Context("reserved or empty attribute key").Cause(ErrInvalidAttribute).Err()
		}
	}
	return nil
}

// Directed reports whether edges are one-way
func (g *Graph) Directed() bool {
	return g.directed
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges, duplicates included
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns copies of all nodes in ascending ID order
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.nodes))
	for i := range g.nodes {
		nodes[i] = *g.nodes[i].Clone()
	}
	return nodes
}

// Edges returns copies of all edges in load order
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	for i := range g.edges {
		edges[i] = *g.edges[i].Clone()
	}
	return edges
}

// NodeIDs returns all node IDs in ascending order
func (g *Graph) NodeIDs() []uint64 {
	ids := make([]uint64, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

// HasNode reports whether the node exists
func (g *Graph) HasNode(id uint64) bool {
	_, ok := g.nodeIndex[id]
	return ok
}

// NodeIndex returns the dense position of a node in NodeIDs order
func (g *Graph) NodeIndex(id uint64) (int, bool) {
	idx, ok := g.nodeIndex[id]
	return idx, ok
}

// Node returns a copy of the node with the given ID
func (g *Graph) Node(id uint64) (*Node, error) {
	idx, ok := g.nodeIndex[id]
	if !ok {
		return nil, NodeNotFoundError(id)
	}
	return g.nodes[idx].Clone(), nil
}

// Edge returns a copy of the edge with the given ID
func (g *Graph) Edge(id uint64) (*Edge, error) {
	pos, ok := g.edgeIndex[id]
	if !ok {
		return nil, EdgeNotFoundError(id)
	}
	return g.edges[pos].Clone(), nil
}

// OutEdges returns the edges leaving a node, in load order
func (g *Graph) OutEdges(id uint64) ([]*Edge, error) {
	idx, ok := g.nodeIndex[id]
	if !ok {
		return nil, NodeNotFoundError(id)
	}
	return g.collect(g.out[idx]), nil
}

// InEdges returns the edges entering a node, in load order
func (g *Graph) InEdges(id uint64) ([]*Edge, error) {
	idx, ok := g.nodeIndex[id]
	if !ok {
		return nil, NodeNotFoundError(id)
	}
	return g.collect(g.in[idx]), nil
}

func (g *Graph) collect(positions []int) []*Edge {
	edges := make([]*Edge, len(positions))
	for i, pos := range positions {
		edges[i] = g.edges[pos].Clone()
	}
	return edges
}

// OutDegree returns the number of edges leaving a node (0 for unknown nodes)
func (g *Graph) OutDegree(id uint64) int {
	idx, ok := g.nodeIndex[id]
	if !ok {
		return 0
	}
	return len(g.out[idx])
}

// InDegree returns the number of edges entering a node (0 for unknown nodes)
func (g *Graph) InDegree(id uint64) int {
	idx, ok := g.nodeIndex[id]
	if !ok {
		return 0
	}
	return len(g.in[idx])
}

// Degree returns in-degree plus out-degree. A self-loop counts twice.
func (g *Graph) Degree(id uint64) int {
	return g.InDegree(id) + g.OutDegree(id)
}

// NodeAttribute looks up a core field or extension attribute of a node
func (g *Graph) NodeAttribute(id uint64, key string) (Value, bool) {
	idx, ok := g.nodeIndex[id]
	if !ok {
		return Value{}, false
	}
	return g.nodes[idx].Attribute(key)
}

// EdgeAttribute looks up a core field or extension attribute of an edge
func (g *Graph) EdgeAttribute(id uint64, key string) (Value, bool) {
	pos, ok := g.edgeIndex[id]
	if !ok {
		return Value{}, false
	}
	return g.edges[pos].Attribute(key)
}

// Statistics contains graph statistics
type Statistics struct {
	NodeCount   int
	EdgeCount   int
	TotalWeight float64
	SelfLoops   int
}

// GetStatistics returns graph statistics
func (g *Graph) GetStatistics() Statistics {
	stats := Statistics{
		NodeCount: len(g.nodes),
		EdgeCount: len(g.edges),
	}
	for i := range g.edges {
		stats.TotalWeight += g.edges[i].Weight
		if g.edges[i].IsSelfLoop() {
			stats.SelfLoops++
		}
	}
	return stats
}
