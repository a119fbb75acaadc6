package algorithms

import (
	"sort"

	"github.com/dd0wney/connectome-metrics/pkg/storage"
)

// Projection is the undirected weighted view of a graph. A directed pair
// u->v (w1) and v->u (w2) becomes one tie of weight w1+w2; a single direction
// keeps its weight. Self-loops and zero-weight ties are dropped.
type Projection struct {
	ids      []uint64
	index    map[uint64]int
	weights  []map[int]float64
	strength []float64
	total    float64
}

// Symmetrize builds the undirected projection of g
func Symmetrize(g *storage.Graph) *Projection {
	ids := g.NodeIDs()
	p := &Projection{
		ids:      ids,
		index:    make(map[uint64]int, len(ids)),
		weights:  make([]map[int]float64, len(ids)),
		strength: make([]float64, len(ids)),
	}
	for i, id := range ids {
		p.index[id] = i
		p.weights[i] = make(map[int]float64)
	}

	for _, e := range g.Edges() {
		if e.IsSelfLoop() || e.Weight <= 0 {
			continue
		}
		u := p.index[e.FromNodeID]
		v := p.index[e.ToNodeID]
		p.weights[u][v] += e.Weight
		p.weights[v][u] += e.Weight
		p.strength[u] += e.Weight
		p.strength[v] += e.Weight
		p.total += e.Weight
	}
	return p
}

// NodeIDs returns the projected node IDs in ascending order
func (p *Projection) NodeIDs() []uint64 {
	out := make([]uint64, len(p.ids))
	copy(out, p.ids)
	return out
}

// Weight returns the combined tie weight between two nodes (0 if none)
func (p *Projection) Weight(u, v uint64) float64 {
	i, ok := p.index[u]
	if !ok {
		return 0
	}
	j, ok := p.index[v]
	if !ok {
		return 0
	}
	return p.weights[i][j]
}

// Neighbors returns the IDs tied to a node, ascending
func (p *Projection) Neighbors(id uint64) []uint64 {
	i, ok := p.index[id]
	if !ok {
		return nil
	}
	out := make([]uint64, 0, len(p.weights[i]))
	for j := range p.weights[i] {
		out = append(out, p.ids[j])
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// Strength returns the weighted degree of a node
func (p *Projection) Strength(id uint64) float64 {
	i, ok := p.index[id]
	if !ok {
		return 0
	}
	return p.strength[i]
}

// TotalWeight returns m, the sum of all tie weights
func (p *Projection) TotalWeight() float64 {
	return p.total
}
