package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Verify all metrics are initialized
	if r.PipelineStageDuration == nil {
		t.Error("PipelineStageDuration not initialized")
	}
	if r.AnalysisComputationsTotal == nil {
		t.Error("AnalysisComputationsTotal not initialized")
	}
	if r.CommunityModularity == nil {
		t.Error("CommunityModularity not initialized")
	}
	if r.ExportsTotal == nil {
		t.Error("ExportsTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	// Should return the same instance
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordStage(t *testing.T) {
	r := NewRegistry()

	r.RecordStage("fullChemical", "simplify", 2*time.Millisecond)
	r.RecordStage("fullChemical", "simplify", 4*time.Millisecond)
	r.RecordStage("reducedChemical", "remove_isolates", time.Millisecond)

	histogram, err := r.PipelineStageDuration.GetMetricWithLabelValues("fullChemical", "simplify")
	if err != nil {
		t.Fatalf("Failed to get histogram: %v", err)
	}

	var metric dto.Metric
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("Sample count = %v, want 2", metric.Histogram.GetSampleCount())
	}

	sum := metric.Histogram.GetSampleSum()
	if sum < 0.0059 || sum > 0.0061 {
		t.Errorf("Sample sum = %v, want ~0.006", sum)
	}
}

func TestSetSnapshotSize(t *testing.T) {
	r := NewRegistry()

	r.SetSnapshotSize("fullChemical", 5, 3)
	r.SetSnapshotSize("reducedChemical", 4, 2)

	tests := []struct {
		snapshot     string
		nodes, edges float64
	}{
		{"fullChemical", 5, 3},
		{"reducedChemical", 4, 2},
	}

	for _, tt := range tests {
		if got := gaugeValue(t, r.PipelineSnapshotNodes.WithLabelValues(tt.snapshot)); got != tt.nodes {
			t.Errorf("%s nodes = %v, want %v", tt.snapshot, got, tt.nodes)
		}
		if got := gaugeValue(t, r.PipelineSnapshotEdges.WithLabelValues(tt.snapshot)); got != tt.edges {
			t.Errorf("%s edges = %v, want %v", tt.snapshot, got, tt.edges)
		}
	}
}

func TestRecordComputation(t *testing.T) {
	r := NewRegistry()

	r.RecordComputation("betweenness", "reducedChemical", "success", 10*time.Millisecond)
	r.RecordComputation("betweenness", "reducedChemical", "success", 20*time.Millisecond)
	r.RecordComputation("topology", "fullChemical", "error", time.Millisecond)
	r.RecordCacheHit("betweenness")

	success, err := r.AnalysisComputationsTotal.GetMetricWithLabelValues("betweenness", "reducedChemical", "success")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if v := counterValue(t, success); v != 2 {
		t.Errorf("Success count = %v, want 2", v)
	}

	failed, _ := r.AnalysisComputationsTotal.GetMetricWithLabelValues("topology", "fullChemical", "error")
	if v := counterValue(t, failed); v != 1 {
		t.Errorf("Error count = %v, want 1", v)
	}

	hits, _ := r.AnalysisCacheHitsTotal.GetMetricWithLabelValues("betweenness")
	if v := counterValue(t, hits); v != 1 {
		t.Errorf("Cache hits = %v, want 1", v)
	}
}

func TestOutcomeMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordTopology(1.5, 3, 14)
	r.RecordTopology(1.5, 3, 14)
	r.RecordUndefinedConstraints(4)
	r.RecordCommunities(0.44, 2, 2, false)
	r.RecordCommunities(0, 3, 0, true)

	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"TopologyAverageDistance", gaugeValue(t, r.TopologyAverageDistance), 1.5},
		{"TopologyDiameter", gaugeValue(t, r.TopologyDiameter), 3},
		{"TopologySkippedPairsTotal", counterValue(t, r.TopologySkippedPairsTotal), 28},
		{"ConstraintUndefinedTotal", counterValue(t, r.ConstraintUndefinedTotal), 4},
		{"CommunityModularity", gaugeValue(t, r.CommunityModularity), 0},
		{"CommunityCount", gaugeValue(t, r.CommunityCount), 3},
		{"CommunityNonConvergenceTotal", counterValue(t, r.CommunityNonConvergenceTotal), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestRecordExport(t *testing.T) {
	r := NewRegistry()

	r.RecordExport("success", 3)
	r.RecordExport("error", 0)

	if v := gaugeValue(t, r.ExportHighlightedEdges); v != 3 {
		t.Errorf("Highlighted edges = %v, want 3 (failed export must not reset it)", v)
	}
	failed, _ := r.ExportsTotal.GetMetricWithLabelValues("error")
	if v := counterValue(t, failed); v != 1 {
		t.Errorf("Failed exports = %v, want 1", v)
	}
}

func TestSystemMetrics(t *testing.T) {
	r := NewRegistry()

	r.UpdateSystemMetrics(time.Now().Add(-time.Minute))

	if v := gaugeValue(t, r.UptimeSeconds); v < 60 {
		t.Errorf("UptimeSeconds = %v, want >= 60", v)
	}
	if v := gaugeValue(t, r.GoRoutines); v < 1 {
		t.Errorf("GoRoutines = %v, want >= 1", v)
	}
	if v := gaugeValue(t, r.MemorySysBytes); v <= 0 {
		t.Errorf("MemorySysBytes = %v, want > 0", v)
	}
}

func TestGetPrometheusRegistry(t *testing.T) {
	r := NewRegistry()
	promRegistry := r.GetPrometheusRegistry()

	if promRegistry == nil {
		t.Fatal("GetPrometheusRegistry() returned nil")
	}

	// Verify we can gather metrics
	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	if len(metrics) == 0 {
		t.Error("No metrics registered")
	}

	// Verify some expected metrics exist
	expectedMetrics := []string{
		"connectome_pipeline_snapshots_built_total",
		"connectome_community_modularity",
		"connectome_uptime_seconds",
	}

	metricNames := make(map[string]bool)
	for _, m := range metrics {
		metricNames[m.GetName()] = true
	}

	for _, expected := range expectedMetrics {
		if !metricNames[expected] {
			t.Errorf("Expected metric %s not found", expected)
		}
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				r.RecordCacheHit("constraint")
			}
			done <- true
		}()
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}

	hits, err := r.AnalysisCacheHitsTotal.GetMetricWithLabelValues("constraint")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	// 10 goroutines * 100 hits
	if v := counterValue(t, hits); v != 1000 {
		t.Errorf("Counter = %v, want 1000", v)
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	r.RecordStage("fullChemical", "simplify", time.Millisecond)
	r.RecordComputation("constraint", "reducedChemical", "success", time.Millisecond)

	metrics, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	// Verify all metrics have the connectome_ prefix
	for _, m := range metrics {
		name := m.GetName()
		if !strings.HasPrefix(name, "connectome_") {
			t.Errorf("Metric %s does not have connectome_ prefix", name)
		}
	}
}

func BenchmarkRecordComputation(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordComputation("betweenness", "reducedChemical", "success", 10*time.Millisecond)
	}
}
