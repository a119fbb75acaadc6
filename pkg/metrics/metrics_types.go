package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Pipeline Metrics
	PipelineStageDuration  *prometheus.HistogramVec
	PipelineSnapshotNodes  *prometheus.GaugeVec
	PipelineSnapshotEdges  *prometheus.GaugeVec
	PipelineSnapshotsBuilt prometheus.Counter

	// Analysis Metrics
	AnalysisComputationsTotal *prometheus.CounterVec
	AnalysisDuration          *prometheus.HistogramVec
	AnalysisCacheHitsTotal    *prometheus.CounterVec
	AnalysisRunsTotal         *prometheus.CounterVec

	// Metric Outcome Metrics
	TopologyAverageDistance      prometheus.Gauge
	TopologyDiameter             prometheus.Gauge
	TopologySkippedPairsTotal    prometheus.Counter
	ConstraintUndefinedTotal     prometheus.Counter
	CommunityModularity          prometheus.Gauge
	CommunityCount               prometheus.Gauge
	CommunityMerges              prometheus.Gauge
	CommunityNonConvergenceTotal prometheus.Counter

	// Export Metrics
	ExportsTotal           *prometheus.CounterVec
	ExportHighlightedEdges prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initPipelineMetrics()
	r.initAnalysisMetrics()
	r.initOutcomeMetrics()
	r.initExportMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
