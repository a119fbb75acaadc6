package export

import (
	"math"

	"github.com/dd0wney/connectome-metrics/pkg/storage"
)

// highlightSigmas is how many population standard deviations above the mean
// an edge weight must lie to be highlighted
const highlightSigmas = 2.0

// weightStats returns the mean and population standard deviation of the
// edge weights
func weightStats(edges []storage.Edge) (mean, stddev float64) {
	if len(edges) == 0 {
		return 0, 0
	}

	for _, e := range edges {
		mean += e.Weight
	}
	mean /= float64(len(edges))

	variance := 0.0
	for _, e := range edges {
		d := e.Weight - mean
		variance += d * d
	}
	variance /= float64(len(edges))

	return mean, math.Sqrt(variance)
}

// edgeRecords converts edges in order and flags those strictly above
// mean + 2 sigma of this edge set
func edgeRecords(edges []storage.Edge) ([]EdgeRecord, EdgeSummary) {
	mean, stddev := weightStats(edges)
	summary := EdgeSummary{
		Mean:      mean,
		StdDev:    stddev,
		Threshold: mean + highlightSigmas*stddev,
	}

	records := make([]EdgeRecord, 0, len(edges))
	for _, e := range edges {
		rec := EdgeRecord{
			From:      e.FromNodeID,
			To:        e.ToNodeID,
			Width:     e.Weight,
			Highlight: e.Weight > summary.Threshold,
		}
		if rec.Highlight {
			summary.Highlighted++
		}
		records = append(records, rec)
	}

	return records, summary
}
