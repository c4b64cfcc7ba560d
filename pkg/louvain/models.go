package louvain

import (
	"github.com/gilchrisn/louvain-modularity/pkg/graph"
)

// Result represents the algorithm output over the original node keys
type Result[K comparable, L any] struct {
	RunID string `json:"run_id"`

	// Graph is the input topology with every label extended by its community
	Graph *graph.Graph[K, Assignment[L]] `json:"-"`

	FinalCommunities     map[K]int   `json:"final_communities"`
	NumCommunities       int         `json:"num_communities"`
	Modularity           float64     `json:"modularity"`
	NormalizedModularity float64     `json:"normalized_modularity"`
	NumLevels            int         `json:"num_levels"`
	Levels               []LevelInfo `json:"levels"`
	Statistics           Statistics  `json:"statistics"`
}

// LevelInfo contains information about each hierarchical level
type LevelInfo struct {
	Level                int       `json:"level" yaml:"level"`
	NumNodes             int       `json:"num_nodes" yaml:"num_nodes"`
	NumCommunities       int       `json:"num_communities" yaml:"num_communities"`
	NumMoves             int       `json:"num_moves" yaml:"num_moves"`
	NumPasses            int       `json:"num_passes" yaml:"num_passes"`
	PassModularity       []float64 `json:"pass_modularity" yaml:"pass_modularity"`
	Modularity           float64   `json:"modularity" yaml:"modularity"`
	NormalizedModularity float64   `json:"normalized_modularity" yaml:"normalized_modularity"`
	RuntimeMS            int64     `json:"runtime_ms" yaml:"runtime_ms"`
}

// Statistics contains algorithm performance metrics
type Statistics struct {
	TotalPasses  int   `json:"total_passes" yaml:"total_passes"`
	TotalMoves   int   `json:"total_moves" yaml:"total_moves"`
	RuntimeMS    int64 `json:"runtime_ms" yaml:"runtime_ms"`
	MemoryPeakMB int64 `json:"memory_peak_mb" yaml:"memory_peak_mb"`
}

// Communities groups the original node keys by final community. Members keep
// the node order of the input graph.
func (r *Result[K, L]) Communities() map[int][]K {
	groups := make(map[int][]K, r.NumCommunities)
	for _, k := range r.Graph.Nodes() {
		c := r.FinalCommunities[k]
		groups[c] = append(groups[c], k)
	}
	return groups
}

// CommunityOf returns the final community of k
func (r *Result[K, L]) CommunityOf(k K) (int, bool) {
	c, ok := r.FinalCommunities[k]
	return c, ok
}
