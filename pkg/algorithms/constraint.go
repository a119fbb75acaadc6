package algorithms

import (
	"encoding/json"

	"github.com/dd0wney/connectome-metrics/pkg/storage"
)

// ConstraintScore is Burt's constraint for one node. Defined is false when the
// node has fewer than two distinct ties; Value is then meaningless and must
// not be read as zero.
type ConstraintScore struct {
	Value   float64
	Defined bool
}

// Undefined returns the sentinel for nodes without enough ties
func Undefined() ConstraintScore {
	return ConstraintScore{}
}

// Float returns the value and whether it is defined
func (c ConstraintScore) Float() (float64, bool) {
	return c.Value, c.Defined
}

// MarshalJSON encodes undefined scores as null
func (c ConstraintScore) MarshalJSON() ([]byte, error) {
	if !c.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// Constraint computes Burt's structural-hole constraint over the undirected
// projection of g:
//
//	p_ij = (a_ij + a_ji) / sum_k (a_ik + a_ki)
//	c_i  = sum_j (p_ij + sum_{q != i,j} p_iq * p_qj)^2
//
// Nodes with fewer than two ties get Undefined(); the rest of the batch is
// still computed.
func Constraint(g *storage.Graph) (map[uint64]ConstraintScore, error) {
	p := Symmetrize(g)
	result := make(map[uint64]ConstraintScore, len(p.ids))

	for i := range p.ids {
		ties := p.weights[i]
		if len(ties) < 2 {
			result[p.ids[i]] = Undefined()
			continue
		}

		c := 0.0
		for j := range ties {
			local := p.proportion(i, j)
			for q := range ties {
				if q == j {
					continue
				}
				local += p.proportion(i, q) * p.proportion(q, j)
			}
			c += local * local
		}
		result[p.ids[i]] = ConstraintScore{Value: c, Defined: true}
	}

	return result, nil
}

// proportion is the share of i's tie strength invested in j
func (p *Projection) proportion(i, j int) float64 {
	if p.strength[i] == 0 {
		return 0
	}
	return p.weights[i][j] / p.strength[i]
}
