package algorithms

import (
	"fmt"
	"sort"

	"github.com/dd0wney/connectome-metrics/pkg/storage"
)

// tieEpsilon absorbs floating point noise when comparing modularity gains
const tieEpsilon = 1e-12

// GreedyModularity detects communities by greedy agglomeration
// (Clauset-Newman-Moore) over the undirected projection of g.
//
// Every node starts alone. At each step the adjacent pair of communities with
// the greatest modularity gain is merged; equal gains go to the pair with the
// lowest (smaller, larger) community index, where a community's index is the
// smallest sorted-node position it contains. Merging stops when no gain is
// positive or one community remains, and the partition with the highest Q
// seen is returned.
func GreedyModularity(g *storage.Graph) (*CommunityDetectionResult, error) {
	p := Symmetrize(g)
	n := len(p.ids)

	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}
	if n == 0 {
		return buildResult(p, labels, 0, nil, 0, false), nil
	}
	if p.total == 0 {
		return buildResult(p, labels, 0, []float64{0}, 0, true), nil
	}

	twoM := 2 * p.total
	a := make([]float64, n)
	e := make([]map[int]float64, n)
	members := make([][]int, n)
	alive := make([]bool, n)
	q := 0.0
	for i := 0; i < n; i++ {
		a[i] = p.strength[i] / twoM
		e[i] = make(map[int]float64, len(p.weights[i]))
		for j, w := range p.weights[i] {
			e[i][j] = w / twoM
		}
		members[i] = []int{i}
		alive[i] = true
		q -= a[i] * a[i]
	}

	history := []float64{q}
	bestQ := q
	best := append([]int(nil), labels...)
	merges := 0

	for {
		bc, bd := -1, -1
		bestGain := 0.0
		for c := 0; c < n; c++ {
			if !alive[c] {
				continue
			}
			for d, ecd := range e[c] {
				if d <= c {
					continue
				}
				gain := 2 * (ecd - a[c]*a[d])
				if bc < 0 || gain > bestGain+tieEpsilon ||
					(gain > bestGain-tieEpsilon && c == bc && d < bd) {
					bc, bd, bestGain = c, d, gain
				}
			}
		}
		if bc < 0 || bestGain <= tieEpsilon {
			break
		}

		// Merge bd into bc so the surviving index stays the lowest
		for k, w := range e[bd] {
			delete(e[k], bd)
			if k == bc {
				continue
			}
			e[bc][k] += w
			e[k][bc] += w
		}
		delete(e[bc], bd)
		e[bd] = nil
		a[bc] += a[bd]
		for _, m := range members[bd] {
			labels[m] = bc
		}
		members[bc] = append(members[bc], members[bd]...)
		members[bd] = nil
		alive[bd] = false

		q += bestGain
		merges++
		history = append(history, q)
		if q > bestQ {
			bestQ = q
			best = append(best[:0], labels...)
		}
	}

	return buildResult(p, best, bestQ, history, merges, merges == 0), nil
}

// buildResult renumbers labels by smallest member and assembles communities
func buildResult(p *Projection, labels []int, q float64, history []float64, merges int, nonConvergent bool) *CommunityDetectionResult {
	renumber := make(map[int]int)
	var communities []*Community
	nodeCommunity := make(map[uint64]int, len(labels))

	// Positions ascend with node ID, so the first time a label is seen is its
	// smallest member
	for i, label := range labels {
		id, ok := renumber[label]
		if !ok {
			id = len(communities)
			renumber[label] = id
			communities = append(communities, &Community{ID: id})
		}
		c := communities[id]
		c.Nodes = append(c.Nodes, p.ids[i])
		c.Size++
		nodeCommunity[p.ids[i]] = id
	}

	for _, c := range communities {
		c.Density = density(p, c.Nodes)
	}

	return &CommunityDetectionResult{
		Communities:   communities,
		NodeCommunity: nodeCommunity,
		Modularity:    q,
		History:       history,
		Merges:        merges,
		NonConvergent: nonConvergent,
	}
}

func density(p *Projection, nodes []uint64) float64 {
	s := len(nodes)
	if s < 2 {
		return 0
	}
	ties := 0
	for x := 0; x < s; x++ {
		for y := x + 1; y < s; y++ {
			if p.Weight(nodes[x], nodes[y]) > 0 {
				ties++
			}
		}
	}
	return float64(ties) / float64(s*(s-1)/2)
}

// Modularity computes Q for an arbitrary assignment over the undirected
// projection of g: Q = sum_c [ L_c/m - (K_c/2m)^2 ], with L_c the weight
// inside community c and K_c its total strength. Q is 0 on a graph without
// ties.
func Modularity(g *storage.Graph, assignment map[uint64]int) (float64, error) {
	p := Symmetrize(g)
	if len(assignment) != len(p.ids) {
		return 0, fmt.Errorf("%w: %d of %d nodes assigned", ErrIncompletePartition, len(assignment), len(p.ids))
	}
	for _, id := range p.ids {
		if _, ok := assignment[id]; !ok {
			return 0, fmt.Errorf("%w: node %d missing", ErrIncompletePartition, id)
		}
	}
	if p.total == 0 {
		return 0, nil
	}

	internal := make(map[int]float64)
	strength := make(map[int]float64)
	for i, id := range p.ids {
		c := assignment[id]
		strength[c] += p.strength[i]
		for j, w := range p.weights[i] {
			if j > i && assignment[p.ids[j]] == c {
				internal[c] += w
			}
		}
	}

	labels := make([]int, 0, len(strength))
	for c := range strength {
		labels = append(labels, c)
	}
	sort.Ints(labels)

	q := 0.0
	twoM := 2 * p.total
	for _, c := range labels {
		q += internal[c]/p.total - (strength[c]/twoM)*(strength[c]/twoM)
	}
	return q, nil
}
