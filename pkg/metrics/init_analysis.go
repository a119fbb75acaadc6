package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnalysisMetrics() {
	r.AnalysisComputationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectome_analysis_computations_total",
			Help: "Total number of metric computations",
		},
		[]string{"metric", "snapshot", "status"},
	)

	r.AnalysisDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connectome_analysis_duration_seconds",
			Help:    "Metric computation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"metric"},
	)

	r.AnalysisCacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectome_analysis_cache_hits_total",
			Help: "Total number of metric requests served from the session cache",
		},
		[]string{"metric"},
	)

	r.AnalysisRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectome_analysis_runs_total",
			Help: "Total number of batch analysis runs",
		},
		[]string{"status"},
	)
}

func (r *Registry) initOutcomeMetrics() {
	r.TopologyAverageDistance = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "connectome_topology_average_distance",
			Help: "Mean hop distance over reachable ordered pairs",
		},
	)

	r.TopologyDiameter = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "connectome_topology_diameter",
			Help: "Largest finite hop distance",
		},
	)

	r.TopologySkippedPairsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "connectome_topology_skipped_pairs_total",
			Help: "Total number of unreachable ordered pairs left out of topology metrics",
		},
	)

	r.ConstraintUndefinedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "connectome_constraint_undefined_total",
			Help: "Total number of nodes with undefined constraint",
		},
	)

	r.CommunityModularity = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "connectome_community_modularity",
			Help: "Modularity of the latest detected partition",
		},
	)

	r.CommunityCount = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "connectome_community_count",
			Help: "Number of communities in the latest detected partition",
		},
	)

	r.CommunityMerges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "connectome_community_merges",
			Help: "Merges performed by the latest community detection",
		},
	)

	r.CommunityNonConvergenceTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "connectome_community_nonconvergence_total",
			Help: "Total number of detections where no merge raised modularity",
		},
	)
}

func (r *Registry) initExportMetrics() {
	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectome_exports_total",
			Help: "Total number of export documents built",
		},
		[]string{"status"},
	)

	r.ExportHighlightedEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "connectome_export_highlighted_edges",
			Help: "Edges flagged by the highlight rule in the latest export",
		},
	)
}
