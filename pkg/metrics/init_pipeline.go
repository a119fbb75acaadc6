package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.PipelineStageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connectome_pipeline_stage_duration_seconds",
			Help:    "Cleaning stage duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"snapshot", "stage"},
	)

	r.PipelineSnapshotNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "connectome_pipeline_snapshot_nodes",
			Help: "Number of nodes in a derived snapshot",
		},
		[]string{"snapshot"},
	)

	r.PipelineSnapshotEdges = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "connectome_pipeline_snapshot_edges",
			Help: "Number of edges in a derived snapshot",
		},
		[]string{"snapshot"},
	)

	r.PipelineSnapshotsBuilt = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "connectome_pipeline_snapshots_built_total",
			Help: "Total number of snapshot sets built",
		},
	)
}
