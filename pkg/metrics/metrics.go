package metrics

import (
	"runtime"
	"time"
)

// RecordStage records one cleaning stage
func (r *Registry) RecordStage(snapshot, stage string, duration time.Duration) {
	r.PipelineStageDuration.WithLabelValues(snapshot, stage).Observe(duration.Seconds())
}

// SetSnapshotSize records the size of a derived snapshot
func (r *Registry) SetSnapshotSize(snapshot string, nodes, edges int) {
	r.PipelineSnapshotNodes.WithLabelValues(snapshot).Set(float64(nodes))
	r.PipelineSnapshotEdges.WithLabelValues(snapshot).Set(float64(edges))
}

// RecordComputation records a metric computation on a snapshot
func (r *Registry) RecordComputation(metric, snapshot, status string, duration time.Duration) {
	r.AnalysisComputationsTotal.WithLabelValues(metric, snapshot, status).Inc()
	r.AnalysisDuration.WithLabelValues(metric).Observe(duration.Seconds())
}

// RecordCacheHit records a metric served from the session cache
func (r *Registry) RecordCacheHit(metric string) {
	r.AnalysisCacheHitsTotal.WithLabelValues(metric).Inc()
}

// RecordTopology records topology results
func (r *Registry) RecordTopology(averageDistance float64, diameter, skippedPairs int) {
	r.TopologyAverageDistance.Set(averageDistance)
	r.TopologyDiameter.Set(float64(diameter))
	r.TopologySkippedPairsTotal.Add(float64(skippedPairs))
}

// RecordUndefinedConstraints records nodes whose constraint is undefined
func (r *Registry) RecordUndefinedConstraints(count int) {
	r.ConstraintUndefinedTotal.Add(float64(count))
}

// RecordCommunities records a community detection result
func (r *Registry) RecordCommunities(modularity float64, communities, merges int, nonConvergent bool) {
	r.CommunityModularity.Set(modularity)
	r.CommunityCount.Set(float64(communities))
	r.CommunityMerges.Set(float64(merges))
	if nonConvergent {
		r.CommunityNonConvergenceTotal.Inc()
	}
}

// RecordExport records an export attempt
func (r *Registry) RecordExport(status string, highlighted int) {
	r.ExportsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		r.ExportHighlightedEdges.Set(float64(highlighted))
	}
}

// UpdateSystemMetrics refreshes uptime, goroutine and memory gauges
func (r *Registry) UpdateSystemMetrics(start time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(start).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
