package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dd0wney/connectome-metrics/pkg/algorithms"
	"github.com/dd0wney/connectome-metrics/pkg/storage"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureGraph(t *testing.T) *storage.Graph {
	t.Helper()
	nodes := []storage.Node{
		{ID: 1, CellName: "AVAL", CellClass: "AVA", SomaPos: 0.25, Role: storage.RoleInter},
		{ID: 2, CellName: "ASHL", CellClass: "ASH", SomaPos: 0.125, Role: storage.RoleSensory},
		{ID: 3, CellName: "VA01", CellClass: "VA", SomaPos: 0.5, Role: storage.RoleMotor},
		{ID: 4, CellName: "DB02", CellClass: "DB", SomaPos: 0.75, Role: storage.RoleMotor},
		{ID: 5, CellName: "PVCL", CellClass: "PVC", SomaPos: 1, Role: storage.RoleInter},
	}
	chem := func(from, to uint64, w float64) storage.Edge {
		return storage.Edge{FromNodeID: from, ToNodeID: to, Weight: w, SynapseType: storage.SynapseChemical}
	}
	edges := []storage.Edge{
		chem(2, 1, 2), chem(1, 3, 4), chem(1, 4, 2),
		chem(5, 1, 16), chem(5, 3, 4), chem(3, 4, 2),
	}
	g, err := storage.Load(nodes, edges, true)
	require.NoError(t, err)
	return g
}

func fixtureInputs() Inputs {
	return Inputs{
		Betweenness: map[uint64]float64{1: 0.5, 2: 0, 3: 0.125, 4: 0, 5: 0},
		Constraint: map[uint64]algorithms.ConstraintScore{
			1: {Value: 0.375, Defined: true},
			2: algorithms.Undefined(),
			3: {Value: 0.5, Defined: true},
			4: {Value: 0.75, Defined: true},
		},
		Communities: &algorithms.CommunityDetectionResult{
			NodeCommunity: map[uint64]int{1: 0, 2: 0, 3: 1, 4: 1, 5: 0},
		},
	}
}

func TestExport_Golden(t *testing.T) {
	g := fixtureGraph(t)
	gold := goldie.New(t)

	tests := []struct {
		name string
		opts Options
	}{
		{"community_betweenness", DefaultOptions()},
		{"cellclass_constraint", Options{SizeMetric: SizeConstraint, SizeScale: 2, GroupBy: GroupByCellClass}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Export(g, fixtureInputs(), tt.opts)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, WriteJSON(&buf, doc, false))
			gold.Assert(t, tt.name, buf.Bytes())
		})
	}
}

// TestExport_HighlightBoundary checks that weights {1,1,1,2,10} flag nothing:
// the population threshold is about 10.04 and the rule is strictly greater than.
func TestExport_HighlightBoundary(t *testing.T) {
	nodes := []storage.Node{
		{ID: 1, SomaPos: 0, Role: storage.RoleInter},
		{ID: 2, SomaPos: 0, Role: storage.RoleInter},
		{ID: 3, SomaPos: 0, Role: storage.RoleInter},
	}
	var edges []storage.Edge
	for _, w := range []float64{1, 1, 1, 2, 10} {
		edges = append(edges, storage.Edge{FromNodeID: 1, ToNodeID: 2, Weight: w, SynapseType: storage.SynapseChemical})
	}
	g, err := storage.Load(nodes, edges, true)
	require.NoError(t, err)

	doc, err := Export(g, Inputs{Betweenness: map[uint64]float64{}}, Options{SizeMetric: SizeBetweenness, GroupBy: GroupByCellClass})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, doc.Summary.Mean, 1e-12)
	assert.InDelta(t, 3.52136, doc.Summary.StdDev, 1e-5)
	assert.InDelta(t, 10.04273, doc.Summary.Threshold, 1e-5)
	assert.Equal(t, 0, doc.Summary.Highlighted)
	for _, e := range doc.Edges {
		assert.False(t, e.Highlight, "edge with width %v flagged", e.Width)
	}
	require.Len(t, doc.Edges, 5)
	assert.Equal(t, 10.0, doc.Edges[4].Width)
}

func TestExport_NodeRecords(t *testing.T) {
	g := fixtureGraph(t)

	doc, err := Export(g, fixtureInputs(), Options{SizeMetric: SizeConstraint, SizeScale: 10, GroupBy: GroupByCommunity})
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 5)

	byID := make(map[uint64]NodeRecord)
	for _, n := range doc.Nodes {
		byID[n.ID] = n
	}

	assert.Equal(t, ColorInter, byID[1].Color)
	assert.Equal(t, ColorSensory, byID[2].Color)
	assert.Equal(t, ColorMotor, byID[3].Color)

	require.NotNil(t, byID[1].Size)
	assert.InDelta(t, 3.75, *byID[1].Size, 1e-12)
	assert.Nil(t, byID[2].Size, "undefined constraint must not become a number")
	assert.Nil(t, byID[5].Size, "missing constraint must not become a number")

	assert.Equal(t, "1", byID[4].Group)
	assert.Equal(t, 0.75, byID[4].Level)
	assert.Equal(t, "DB02", byID[4].Label)
}

func TestExport_DoesNotMutateGraph(t *testing.T) {
	g := fixtureGraph(t)
	before := g.Edges()

	_, err := Export(g, fixtureInputs(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, before, g.Edges())
}

func TestExport_Errors(t *testing.T) {
	g := fixtureGraph(t)

	tests := []struct {
		name string
		in   Inputs
		opts Options
		want error
	}{
		{"unknown metric", fixtureInputs(), Options{SizeMetric: "pagerank", GroupBy: GroupByCommunity}, ErrUnknownSizeMetric},
		{"unknown group", fixtureInputs(), Options{SizeMetric: SizeBetweenness, GroupBy: "lineage"}, ErrUnknownGroupBy},
		{"missing degree", fixtureInputs(), Options{SizeMetric: SizeDegree, GroupBy: GroupByCommunity}, ErrMissingInput},
		{"missing communities", Inputs{Betweenness: map[uint64]float64{}}, DefaultOptions(), ErrMissingInput},
		{"partial communities", Inputs{
			Betweenness: map[uint64]float64{},
			Communities: &algorithms.CommunityDetectionResult{NodeCommunity: map[uint64]int{1: 0}},
		}, DefaultOptions(), ErrMissingInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Export(g, tt.in, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestExport_EmptyGraph(t *testing.T) {
	g, err := storage.Load(nil, nil, true)
	require.NoError(t, err)

	doc, err := Export(g, Inputs{Betweenness: map[uint64]float64{}}, Options{SizeMetric: SizeBetweenness, GroupBy: GroupByCellClass})
	require.NoError(t, err)
	assert.Empty(t, doc.Nodes)
	assert.Empty(t, doc.Edges)
	assert.Zero(t, doc.Summary.Threshold)
}

func TestWriteJSON_Compressed(t *testing.T) {
	g := fixtureGraph(t)
	doc, err := Export(g, fixtureInputs(), DefaultOptions())
	require.NoError(t, err)

	var plain, packed bytes.Buffer
	require.NoError(t, WriteJSON(&plain, doc, false))
	require.NoError(t, WriteJSON(&packed, doc, true))
	assert.NotEqual(t, plain.Bytes(), packed.Bytes())

	decoded, err := ReadJSON(&packed, true)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)

	_, err = ReadJSON(bytes.NewReader([]byte("not json")), false)
	assert.Error(t, err)
}

func TestParseOptions(t *testing.T) {
	m, err := ParseSizeMetric("Constraint")
	require.NoError(t, err)
	assert.Equal(t, SizeConstraint, m)

	_, err = ParseSizeMetric("eigenvector")
	assert.ErrorIs(t, err, ErrUnknownSizeMetric)

	gb, err := ParseGroupBy("cell_class")
	require.NoError(t, err)
	assert.Equal(t, GroupByCellClass, gb)

	_, err = ParseGroupBy("soma")
	assert.ErrorIs(t, err, ErrUnknownGroupBy)
}
