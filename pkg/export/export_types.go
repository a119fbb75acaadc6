package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dd0wney/connectome-metrics/pkg/algorithms"
)

var (
	// ErrUnknownSizeMetric is returned for an unrecognised size metric name
	ErrUnknownSizeMetric = errors.New("unknown size metric")
	// ErrUnknownGroupBy is returned for an unrecognised grouping name
	ErrUnknownGroupBy = errors.New("unknown group by")
	// ErrMissingInput is returned when the selected metric or grouping was not supplied
	ErrMissingInput = errors.New("missing export input")
)

// SizeMetric selects the per-node metric that drives node size
type SizeMetric string

const (
	SizeBetweenness SizeMetric = "betweenness"
	SizeConstraint  SizeMetric = "constraint"
	SizeDegree      SizeMetric = "degree"
)

// ParseSizeMetric converts a configuration name to a SizeMetric
func ParseSizeMetric(s string) (SizeMetric, error) {
	switch m := SizeMetric(strings.ToLower(s)); m {
	case SizeBetweenness, SizeConstraint, SizeDegree:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSizeMetric, s)
	}
}

// GroupBy selects what a node's group label is taken from
type GroupBy string

const (
	GroupByCommunity GroupBy = "community"
	GroupByCellClass GroupBy = "cell_class"
)

// ParseGroupBy converts a configuration name to a GroupBy
func ParseGroupBy(s string) (GroupBy, error) {
	switch gb := GroupBy(strings.ToLower(s)); gb {
	case GroupByCommunity, GroupByCellClass:
		return gb, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGroupBy, s)
	}
}

// Color is the rendering category of a node, derived from its role
type Color string

const (
	ColorSensory Color = "sensory"
	ColorMotor   Color = "motor"
	ColorInter   Color = "inter"
)

// Options configures Export
type Options struct {
	SizeMetric SizeMetric
	SizeScale  float64 // multiplier applied to the size metric
	GroupBy    GroupBy
}

// DefaultOptions sizes nodes by betweenness x100 and groups by community
func DefaultOptions() Options {
	return Options{
		SizeMetric: SizeBetweenness,
		SizeScale:  100,
		GroupBy:    GroupByCommunity,
	}
}

// Inputs holds computed metrics for the exported graph. Only the maps the
// chosen options need must be set.
type Inputs struct {
	Betweenness map[uint64]float64
	Constraint  map[uint64]algorithms.ConstraintScore
	Degree      map[uint64]float64
	Communities *algorithms.CommunityDetectionResult
}

// NodeRecord is one node as handed to a renderer
type NodeRecord struct {
	ID    uint64 `json:"id"`
	Label string `json:"label"`
	Color Color  `json:"color"`
	// Size is null when the metric is undefined for this node
	Size  *float64 `json:"size"`
	Group string   `json:"group"`
	Level float64  `json:"level"` // soma position
}

// EdgeRecord is one edge as handed to a renderer
type EdgeRecord struct {
	From      uint64  `json:"from"`
	To        uint64  `json:"to"`
	Width     float64 `json:"width"`
	Highlight bool    `json:"highlight"`
}

// EdgeSummary describes the weight distribution the highlight rule used
type EdgeSummary struct {
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
	Threshold   float64 `json:"threshold"`
	Highlighted int     `json:"highlighted"`
}

// Document is the complete export of one graph
type Document struct {
	SizeMetric SizeMetric   `json:"size_metric"`
	GroupBy    GroupBy      `json:"group_by"`
	Nodes      []NodeRecord `json:"nodes"`
	Edges      []EdgeRecord `json:"edges"`
	Summary    EdgeSummary  `json:"summary"`
}
