package algorithms

// Community represents a detected community
type Community struct {
	ID      int      `json:"id"`
	Nodes   []uint64 `json:"nodes"`
	Size    int      `json:"size"`
	Density float64  `json:"density"` // ties present / ties possible within the community
}

// CommunityDetectionResult contains detected communities.
//
// Community IDs are assigned in order of each community's smallest node ID.
// They are stable within one run only; a different merge order on a graph
// with symmetric structure can yield a different, equally good partition.
type CommunityDetectionResult struct {
	Communities   []*Community   `json:"communities"`
	NodeCommunity map[uint64]int `json:"node_community"`
	Modularity    float64        `json:"modularity"`
	// History records Q before any merge and after every merge
	History []float64 `json:"history"`
	Merges  int       `json:"merges"`
	// NonConvergent is set when no merge raised modularity from the start;
	// the partition is then all singletons.
	NonConvergent bool `json:"non_convergent"`
}

// CommunityOf returns the community ID for a node
func (r *CommunityDetectionResult) CommunityOf(nodeID uint64) (int, bool) {
	id, ok := r.NodeCommunity[nodeID]
	return id, ok
}
