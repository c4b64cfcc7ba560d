package graph

import (
	"sort"

	gonum "gonum.org/v1/gonum/graph"
)

// FromGonum converts a gonum weighted undirected graph into a Graph keyed by
// gonum node ID, with the gonum node kept as label. Nodes are inserted in
// ascending ID order so conversions are deterministic. Multigraphs
// (gonum.org/v1/gonum/graph/multi) are supported: the edge weight between two
// nodes is whatever the graph reports for WeightedEdgeBetween, which for multi
// graphs is the sum of their lines by default.
func FromGonum(g gonum.WeightedUndirected) *Graph[int64, gonum.Node] {
	nodes := gonum.NodesOf(g.Nodes())
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })

	out := New[int64, gonum.Node]()
	for _, n := range nodes {
		out.AddNode(n.ID(), n)
	}

	for _, u := range nodes {
		uid := u.ID()
		neighbors := gonum.NodesOf(g.From(uid))
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].ID() < neighbors[j].ID() })

		for _, v := range neighbors {
			vid := v.ID()
			if vid < uid {
				continue // seen from the other endpoint
			}
			e := g.WeightedEdgeBetween(uid, vid)
			if e == nil {
				continue
			}
			out.AddEdge(uid, vid, e.Weight())
		}
	}

	return out
}
