// Package analysis runs the metric pipeline over the two cleaned snapshots of
// a connectome and memoizes every result for the life of a session.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dd0wney/connectome-metrics/pkg/algorithms"
	"github.com/dd0wney/connectome-metrics/pkg/cleaning"
	"github.com/dd0wney/connectome-metrics/pkg/logging"
	"github.com/dd0wney/connectome-metrics/pkg/metrics"
	"github.com/dd0wney/connectome-metrics/pkg/parallel"
	"github.com/dd0wney/connectome-metrics/pkg/storage"
	"github.com/google/uuid"
)

// Metric names used for caching, logging and instrumentation
const (
	MetricTopology    = "topology"
	MetricBetweenness = "betweenness"
	MetricConstraint  = "constraint"
	MetricDegree      = "degree"
	MetricCommunities = "communities"
	MetricComponents  = "components"
)

// ErrSessionClosed is returned by Run after Close
var ErrSessionClosed = errors.New("analysis session closed")

// Options configures a Session
type Options struct {
	Cleaning cleaning.Options
	Workers  int
	Logger   logging.Logger
	Metrics  *metrics.Registry
}

// DefaultOptions returns the reference cleaning options and four workers
func DefaultOptions() Options {
	return Options{
		Cleaning: cleaning.DefaultOptions(),
		Workers:  4,
	}
}

type cacheKey struct {
	metric   string
	snapshot cleaning.SnapshotName
}

type cacheEntry struct {
	once  sync.Once
	value any
	err   error
}

// Session owns the snapshots derived from one source graph. Every metric is
// computed at most once per snapshot; later calls return the cached value,
// which callers must not modify.
type Session struct {
	id        string
	source    *storage.Graph
	snapshots *cleaning.Snapshots
	logger    logging.Logger
	metrics   *metrics.Registry
	pool      *parallel.WorkerPool

	mu    sync.Mutex
	cache map[cacheKey]*cacheEntry
}

// NewSession cleans g into its snapshots and prepares a worker pool for Run
func NewSession(g *storage.Graph, opts Options) (*Session, error) {
	id := uuid.NewString()
	logger := logging.OrDefault(opts.Logger).With(logging.Component("analysis"), logging.RunID(id))

	cleanOpts := opts.Cleaning
	cleanOpts.Logger = logger
	if cleanOpts.Metrics == nil {
		cleanOpts.Metrics = opts.Metrics
	}
	snapshots, err := cleaning.BuildSnapshots(g, cleanOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshots: %w", err)
	}

	pool, err := parallel.NewWorkerPool(opts.Workers, logger)
	if err != nil {
		return nil, err
	}

	return &Session{
		id:        id,
		source:    g,
		snapshots: snapshots,
		logger:    logger,
		metrics:   opts.Metrics,
		pool:      pool,
		cache:     make(map[cacheKey]*cacheEntry),
	}, nil
}

// ID returns the run identifier. Community ids are only comparable between
// results that share it.
func (s *Session) ID() string {
	return s.id
}

// Source returns the uncleaned graph
func (s *Session) Source() *storage.Graph {
	return s.source
}

// Snapshots returns the derived graphs
func (s *Session) Snapshots() *cleaning.Snapshots {
	return s.snapshots
}

// Close stops the worker pool. Cached results stay readable.
func (s *Session) Close() {
	s.pool.Close()
}

// cached computes fn on the named snapshot once and memoizes the outcome,
// errors included
func cached[T any](s *Session, metric string, name cleaning.SnapshotName, fn func(*storage.Graph) (T, error)) (T, error) {
	key := cacheKey{metric: metric, snapshot: name}

	s.mu.Lock()
	entry, hit := s.cache[key]
	if !hit {
		entry = &cacheEntry{}
		s.cache[key] = entry
	}
	s.mu.Unlock()

	if hit && s.metrics != nil {
		s.metrics.RecordCacheHit(metric)
	}

	entry.once.Do(func() {
		g, err := s.snapshots.Get(name)
		if err != nil {
			entry.err = err
			return
		}

		logger := s.logger.With(logging.Metric(metric), logging.Snapshot(string(name)))
		timer := logging.StartTimer(logger, "metric computed")
		value, err := fn(g)

		var elapsed time.Duration
		status := "success"
		if err != nil {
			elapsed = timer.EndError(err)
			status = "error"
		} else {
			elapsed = timer.End(logging.Nodes(g.NodeCount()), logging.Edges(g.EdgeCount()))
		}
		if s.metrics != nil {
			s.metrics.RecordComputation(metric, string(name), status, elapsed)
		}

		entry.value, entry.err = value, err
	})

	value, _ := entry.value.(T)
	return value, entry.err
}

// Topology computes average distance and diameter on fullChemical, where
// weak synapses still count toward reachability
func (s *Session) Topology() (*algorithms.TopologyResult, error) {
	return cached(s, MetricTopology, cleaning.FullChemical, func(g *storage.Graph) (*algorithms.TopologyResult, error) {
		result, err := algorithms.Topology(g)
		if err != nil {
			return nil, err
		}
		if result.SkippedPairs > 0 {
			s.logger.Debug("unreachable pairs skipped",
				logging.Snapshot(string(cleaning.FullChemical)),
				logging.Count(result.SkippedPairs))
		}
		if s.metrics != nil {
			s.metrics.RecordTopology(result.AverageDistance, result.Diameter, result.SkippedPairs)
		}
		return result, nil
	})
}

// Betweenness computes normalized directed betweenness on reducedChemical
func (s *Session) Betweenness() (map[uint64]float64, error) {
	return cached(s, MetricBetweenness, cleaning.ReducedChemical, func(g *storage.Graph) (map[uint64]float64, error) {
		return algorithms.Betweenness(g, algorithms.DefaultBetweennessOptions())
	})
}

// Constraint computes Burt's constraint on reducedChemical. Nodes with fewer
// than two ties are undefined and counted, not dropped.
func (s *Session) Constraint() (map[uint64]algorithms.ConstraintScore, error) {
	return cached(s, MetricConstraint, cleaning.ReducedChemical, func(g *storage.Graph) (map[uint64]algorithms.ConstraintScore, error) {
		scores, err := algorithms.Constraint(g)
		if err != nil {
			return nil, err
		}

		undefined := 0
		for _, c := range scores {
			if !c.Defined {
				undefined++
			}
		}
		if undefined > 0 {
			s.logger.Warn("constraint undefined for nodes with fewer than two ties", logging.Count(undefined))
		}
		if s.metrics != nil {
			s.metrics.RecordUndefinedConstraints(undefined)
		}
		return scores, nil
	})
}

// Degree computes degree centrality on reducedChemical
func (s *Session) Degree() (map[uint64]float64, error) {
	return cached(s, MetricDegree, cleaning.ReducedChemical, algorithms.DegreeCentrality)
}

// Communities runs greedy modularity on reducedChemical
func (s *Session) Communities() (*algorithms.CommunityDetectionResult, error) {
	return cached(s, MetricCommunities, cleaning.ReducedChemical, func(g *storage.Graph) (*algorithms.CommunityDetectionResult, error) {
		result, err := algorithms.GreedyModularity(g)
		if err != nil {
			return nil, err
		}
		if result.NonConvergent {
			s.logger.Warn("singleton partition returned", logging.Error(algorithms.ErrModularityNonConvergence))
		}
		if s.metrics != nil {
			s.metrics.RecordCommunities(result.Modularity, len(result.Communities), result.Merges, result.NonConvergent)
		}
		return result, nil
	})
}

// Components reports the weak components left in reducedChemical
func (s *Session) Components() (*algorithms.CommunityDetectionResult, error) {
	return cached(s, MetricComponents, cleaning.ReducedChemical, func(g *storage.Graph) (*algorithms.CommunityDetectionResult, error) {
		return algorithms.ConnectedComponents(g), nil
	})
}

// Run computes every metric, independent ones concurrently, and assembles
// the results
func (s *Session) Run(ctx context.Context) (*Results, error) {
	timer := logging.StartTimer(s.logger, "analysis run complete")

	task := func(name string, fn func() error) parallel.Task {
		return parallel.Task{Name: name, Fn: func(context.Context) error { return fn() }}
	}
	ignore := func(_ any, err error) error { return err }

	err := s.pool.RunAll(ctx,
		task(MetricTopology, func() error { return ignore(s.Topology()) }),
		task(MetricBetweenness, func() error { return ignore(s.Betweenness()) }),
		task(MetricConstraint, func() error { return ignore(s.Constraint()) }),
		task(MetricDegree, func() error { return ignore(s.Degree()) }),
		task(MetricCommunities, func() error { return ignore(s.Communities()) }),
		task(MetricComponents, func() error { return ignore(s.Components()) }),
	)
	if errors.Is(err, parallel.ErrPoolClosed) {
		err = fmt.Errorf("%w: %w", ErrSessionClosed, err)
	}
	if err != nil {
		timer.EndError(err)
		if s.metrics != nil {
			s.metrics.AnalysisRunsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	results, err := s.results()
	if err != nil {
		timer.EndError(err)
		return nil, err
	}

	timer.End()
	s.logger.Info("analysis summary",
		logging.Float64("average_distance", results.Topology.AverageDistance),
		logging.Int("diameter", results.Topology.Diameter),
		logging.Float64("modularity", results.Communities.Modularity),
		logging.Int("communities", len(results.Communities.Communities)),
		logging.Int("components", len(results.Components.Communities)),
	)
	if s.metrics != nil {
		s.metrics.AnalysisRunsTotal.WithLabelValues("success").Inc()
	}
	return results, nil
}

// results gathers cached values; every metric must already be computed or
// computable without error
func (s *Session) results() (*Results, error) {
	topology, err := s.Topology()
	if err != nil {
		return nil, err
	}
	betweenness, err := s.Betweenness()
	if err != nil {
		return nil, err
	}
	constraint, err := s.Constraint()
	if err != nil {
		return nil, err
	}
	degree, err := s.Degree()
	if err != nil {
		return nil, err
	}
	communities, err := s.Communities()
	if err != nil {
		return nil, err
	}
	components, err := s.Components()
	if err != nil {
		return nil, err
	}

	full, reduced := s.snapshots.FullChemical, s.snapshots.ReducedChemical
	return &Results{
		RunID:           s.id,
		FullChemical:    summarize(full),
		ReducedChemical: summarize(reduced),
		Topology:        topology,
		Betweenness:     betweenness,
		Constraint:      constraint,
		Degree:          degree,
		Communities:     communities,
		Components:      components,
		nodes:           reduced.Nodes(),
	}, nil
}
