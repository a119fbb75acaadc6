package cleaning

import (
	"fmt"

	"github.com/dd0wney/connectome-metrics/pkg/logging"
	"github.com/dd0wney/connectome-metrics/pkg/metrics"
	"github.com/dd0wney/connectome-metrics/pkg/storage"
)

// SnapshotName identifies one of the derived graphs consumed downstream
type SnapshotName string

const (
	// FullChemical keeps every chemical synapse, weak ones included. Topology
	// metrics use it so reachability reflects full connectivity.
	FullChemical SnapshotName = "fullChemical"
	// ReducedChemical drops single-contact synapses and the nodes they
	// isolate. Centrality, communities and export use it.
	ReducedChemical SnapshotName = "reducedChemical"
)

// DefaultWeightThreshold is the weight at or below which a synapse is weak
const DefaultWeightThreshold = 1.0

// Options configures BuildSnapshots
type Options struct {
	WeightThreshold float64
	MergePolicy     MergePolicy
	// StripAttributes lists metadata removed before any structural step.
	// Nil means the neurotransmitter field only.
	StripAttributes []string
	Logger          logging.Logger
	// Metrics receives stage durations and snapshot sizes when set
	Metrics *metrics.Registry
}

// DefaultOptions returns the options matching the reference analysis
func DefaultOptions() Options {
	return Options{
		WeightThreshold: DefaultWeightThreshold,
		MergePolicy:     MergeFirst,
		StripAttributes: []string{storage.AttrNeurotransmitter},
	}
}

// Snapshots holds the two derived graphs. Both are immutable.
type Snapshots struct {
	FullChemical    *storage.Graph
	ReducedChemical *storage.Graph
}

// Get returns a snapshot by name
func (s *Snapshots) Get(name SnapshotName) (*storage.Graph, error) {
	switch name {
	case FullChemical:
		return s.FullChemical, nil
	case ReducedChemical:
		return s.ReducedChemical, nil
	default:
		return nil, fmt.Errorf("unknown snapshot %q", name)
	}
}

type stage struct {
	name string
	fn   func(*storage.Graph) (*storage.Graph, error)
}

// BuildSnapshots runs the cleaning pipeline:
//
//	fullChemical    = strip metadata -> DropElectrical -> Simplify
//	reducedChemical = fullChemical -> DropLowWeight(threshold) -> RemoveIsolates
func BuildSnapshots(g *storage.Graph, opts Options) (*Snapshots, error) {
	logger := logging.OrDefault(opts.Logger).With(logging.Component("cleaning"))
	strip := opts.StripAttributes
	if strip == nil {
		strip = []string{storage.AttrNeurotransmitter}
	}

	full, err := runStages(logger, opts.Metrics, FullChemical, g, []stage{
		{"strip_attributes", func(g *storage.Graph) (*storage.Graph, error) { return StripAttributes(g, strip...) }},
		{"drop_electrical", DropElectrical},
		{"simplify", func(g *storage.Graph) (*storage.Graph, error) { return Simplify(g, opts.MergePolicy) }},
	})
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", FullChemical, err)
	}

	reduced, err := runStages(logger, opts.Metrics, ReducedChemical, full, []stage{
		{"drop_low_weight", func(g *storage.Graph) (*storage.Graph, error) { return DropLowWeight(g, opts.WeightThreshold) }},
		{"remove_isolates", RemoveIsolates},
	})
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", ReducedChemical, err)
	}

	if opts.Metrics != nil {
		opts.Metrics.SetSnapshotSize(string(FullChemical), full.NodeCount(), full.EdgeCount())
		opts.Metrics.SetSnapshotSize(string(ReducedChemical), reduced.NodeCount(), reduced.EdgeCount())
		opts.Metrics.PipelineSnapshotsBuilt.Inc()
	}

	logger.Info("snapshots built",
		logging.Int("full_nodes", full.NodeCount()),
		logging.Int("full_edges", full.EdgeCount()),
		logging.Int("reduced_nodes", reduced.NodeCount()),
		logging.Int("reduced_edges", reduced.EdgeCount()),
		logging.String("merge_policy", opts.MergePolicy.String()),
	)

	return &Snapshots{FullChemical: full, ReducedChemical: reduced}, nil
}

func runStages(logger logging.Logger, reg *metrics.Registry, name SnapshotName, g *storage.Graph, stages []stage) (*storage.Graph, error) {
	logger = logger.With(logging.Snapshot(string(name)))
	current := g
	for _, st := range stages {
		timer := logging.StartTimer(logger, "stage complete", logging.Stage(st.name))
		next, err := st.fn(current)
		if err != nil {
			timer.EndError(err)
			return nil, fmt.Errorf("%s: %w", st.name, err)
		}
		elapsed := timer.End(logging.Nodes(next.NodeCount()), logging.Edges(next.EdgeCount()))
		if reg != nil {
			reg.RecordStage(string(name), st.name, elapsed)
		}
		current = next
	}
	return current, nil
}
