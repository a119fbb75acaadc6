// Package export projects a graph and its computed metrics into flat node and
// edge records for an external renderer. It performs no layout.
package export

import (
	"fmt"
	"strconv"

	"github.com/dd0wney/connectome-metrics/pkg/storage"
)

// Export builds a Document from g. It only reads g and in.
func Export(g *storage.Graph, in Inputs, opts Options) (*Document, error) {
	size, err := sizeFunc(in, opts.SizeMetric)
	if err != nil {
		return nil, err
	}
	group, err := groupFunc(in, opts.GroupBy)
	if err != nil {
		return nil, err
	}

	nodes := g.Nodes()
	doc := &Document{
		SizeMetric: opts.SizeMetric,
		GroupBy:    opts.GroupBy,
		Nodes:      make([]NodeRecord, 0, len(nodes)),
	}

	for i := range nodes {
		n := &nodes[i]
		label, err := group(n)
		if err != nil {
			return nil, err
		}
		rec := NodeRecord{
			ID:    n.ID,
			Label: displayLabel(n),
			Color: colorFor(n.Role),
			Group: label,
			Level: n.SomaPos,
		}
		if v, ok := size(n.ID); ok {
			scaled := v * opts.SizeScale
			rec.Size = &scaled
		}
		doc.Nodes = append(doc.Nodes, rec)
	}

	doc.Edges, doc.Summary = edgeRecords(g.Edges())
	return doc, nil
}

func sizeFunc(in Inputs, metric SizeMetric) (func(uint64) (float64, bool), error) {
	lookup := func(m map[uint64]float64) func(uint64) (float64, bool) {
		return func(id uint64) (float64, bool) {
			v, ok := m[id]
			return v, ok
		}
	}

	switch metric {
	case SizeBetweenness:
		if in.Betweenness == nil {
			return nil, fmt.Errorf("%w: betweenness", ErrMissingInput)
		}
		return lookup(in.Betweenness), nil
	case SizeDegree:
		if in.Degree == nil {
			return nil, fmt.Errorf("%w: degree", ErrMissingInput)
		}
		return lookup(in.Degree), nil
	case SizeConstraint:
		if in.Constraint == nil {
			return nil, fmt.Errorf("%w: constraint", ErrMissingInput)
		}
		return func(id uint64) (float64, bool) {
			return in.Constraint[id].Float()
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSizeMetric, metric)
	}
}

func groupFunc(in Inputs, by GroupBy) (func(*storage.Node) (string, error), error) {
	switch by {
	case GroupByCellClass:
		return func(n *storage.Node) (string, error) { return n.CellClass, nil }, nil
	case GroupByCommunity:
		if in.Communities == nil {
			return nil, fmt.Errorf("%w: communities", ErrMissingInput)
		}
		return func(n *storage.Node) (string, error) {
			c, ok := in.Communities.CommunityOf(n.ID)
			if !ok {
				return "", fmt.Errorf("%w: node %d has no community", ErrMissingInput, n.ID)
			}
			return strconv.Itoa(c), nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroupBy, by)
	}
}

func displayLabel(n *storage.Node) string {
	if n.CellName != "" {
		return n.CellName
	}
	return strconv.FormatUint(n.ID, 10)
}

func colorFor(r storage.Role) Color {
	switch r {
	case storage.RoleSensory:
		return ColorSensory
	case storage.RoleMotor:
		return ColorMotor
	default:
		return ColorInter
	}
}
