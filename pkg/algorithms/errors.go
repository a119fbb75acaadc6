package algorithms

import "errors"

var (
	// ErrEmptyGraph is returned when a topology metric is requested on a
	// graph without nodes.
	ErrEmptyGraph = errors.New("graph has no nodes")

	// ErrModularityNonConvergence describes a graph on which no merge raises
	// modularity. It is never returned as an error: the detector reports it
	// through CommunityDetectionResult.NonConvergent and keeps the singleton
	// partition.
	ErrModularityNonConvergence = errors.New("no merge increases modularity")

	// ErrIncompletePartition is returned by Modularity when the assignment
	// does not cover every node exactly once.
	ErrIncompletePartition = errors.New("community assignment does not cover every node")
)
