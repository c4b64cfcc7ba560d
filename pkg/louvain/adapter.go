package louvain

import (
	"fmt"

	"github.com/gilchrisn/louvain-modularity/pkg/graph"
)

// Source is the capability set the algorithm needs from an input graph.
// *graph.Graph satisfies it.
type Source[K comparable, L any] interface {
	// Nodes enumerates node keys; the order fixes the dense level-0 ids.
	Nodes() []K
	// Edges enumerates every undirected edge once.
	Edges() []graph.Edge[K]
	// Neighbors returns the neighbors of k and, separately, its self-loop weight.
	Neighbors(k K) ([]graph.Neighbor[K], float64, error)
	// Label returns the payload attached to k.
	Label(k K) (L, error)
}

// Assignment is the output label: the input label extended with the final community
type Assignment[L any] struct {
	Label     L   `json:"label"`
	Community int `json:"community"`
}

// adapter maps the keys of a Source onto dense integer ids and back
type adapter[K comparable, L any] struct {
	src   Source[K, L]
	keys  []K
	index map[K]int
}

func newAdapter[K comparable, L any](src Source[K, L]) *adapter[K, L] {
	keys := src.Nodes()
	index := make(map[K]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}
	return &adapter[K, L]{src: src, keys: keys, index: index}
}

func (a *adapter[K, L]) id(k K) (int, error) {
	i, ok := a.index[k]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrNotFound, k)
	}
	return i, nil
}

// workingGraph builds the level-0 graph: one node per key, each node in its
// own community. Repeated neighbor entries are summed, and a node listed as
// its own neighbor is folded into its self-loop.
func (a *adapter[K, L]) workingGraph() (*workingGraph, error) {
	g := newWorkingGraph(len(a.keys))

	for u, k := range a.keys {
		neighbors, loop, err := a.src.Neighbors(k)
		if err != nil {
			return nil, fmt.Errorf("neighbors of %v: %w", k, err)
		}

		summed := make(map[int]float64, len(neighbors))
		order := make([]int, 0, len(neighbors))
		for _, n := range neighbors {
			v, err := a.id(n.Node)
			if err != nil {
				return nil, fmt.Errorf("neighbor of %v: %w", k, err)
			}
			if v == u {
				loop += n.Weight
				continue
			}
			if _, seen := summed[v]; !seen {
				order = append(order, v)
			}
			summed[v] += n.Weight
		}

		if loop != 0 {
			g.addEdge(u, u, loop)
		}
		for _, v := range order {
			if v > u {
				g.addEdge(u, v, summed[v])
			}
		}
	}

	return g, nil
}

// output constructs the result graph from the source's edge sequence and
// sets every node's label to its original label plus final community.
func (a *adapter[K, L]) output(membership []int) (*graph.Graph[K, Assignment[L]], map[K]int, error) {
	out, err := graph.FromEdges[K, Assignment[L]](a.keys, a.src.Edges())
	if err != nil {
		return nil, nil, fmt.Errorf("build output graph: %w", err)
	}

	communities := make(map[K]int, len(a.keys))
	for i, k := range a.keys {
		label, err := a.src.Label(k)
		if err != nil {
			return nil, nil, fmt.Errorf("label of %v: %w", k, err)
		}
		if err := out.SetLabel(k, Assignment[L]{Label: label, Community: membership[i]}); err != nil {
			return nil, nil, err
		}
		communities[k] = membership[i]
	}

	return out, communities, nil
}
