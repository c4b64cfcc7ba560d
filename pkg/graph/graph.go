// Package graph provides the weighted undirected multigraph the community
// detection engine runs over. Parallel edges are folded into a single summed
// weight on insertion and self-loops are kept apart from the neighbor lists.
package graph

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a node key is not present in the graph.
var ErrNotFound = errors.New("node not found")

// Edge represents a weighted undirected edge between two nodes
type Edge[K comparable] struct {
	From   K       `json:"from" yaml:"from"`
	To     K       `json:"to" yaml:"to"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Neighbor is one entry of a weight-aggregated neighbor list
type Neighbor[K comparable] struct {
	Node   K
	Weight float64
}

// Graph is an insertion-ordered weighted multigraph over node keys K with
// a label payload L per node. It is not safe for concurrent mutation.
type Graph[K comparable, L any] struct {
	keys   []K
	index  map[K]int
	labels []L

	adjacency [][]int       // adjacency[i] = neighbor indices of node i, first-seen order
	weights   [][]float64   // weights[i][j] = summed weight to adjacency[i][j]
	position  []map[int]int // position[i][v] = offset of v in adjacency[i]
	selfLoops []float64     // summed self-loop weight of node i

	numEdges int // distinct undirected node pairs, self-loops included
}

// New creates an empty graph
func New[K comparable, L any]() *Graph[K, L] {
	return &Graph[K, L]{index: make(map[K]int)}
}

// FromEdges builds a graph holding exactly the given nodes (in order) and the
// given edge sequence. Every edge endpoint must be one of nodes.
func FromEdges[K comparable, L any](nodes []K, edges []Edge[K]) (*Graph[K, L], error) {
	g := New[K, L]()
	var zero L
	for _, k := range nodes {
		g.AddNode(k, zero)
	}

	for _, e := range edges {
		if !g.HasNode(e.From) {
			return nil, fmt.Errorf("edge %v-%v: %w: %v", e.From, e.To, ErrNotFound, e.From)
		}
		if !g.HasNode(e.To) {
			return nil, fmt.Errorf("edge %v-%v: %w: %v", e.From, e.To, ErrNotFound, e.To)
		}
		g.AddEdge(e.From, e.To, e.Weight)
	}

	return g, nil
}

// AddNode inserts a node with a label. Re-adding an existing node replaces its label.
func (g *Graph[K, L]) AddNode(k K, label L) {
	if i, ok := g.index[k]; ok {
		g.labels[i] = label
		return
	}
	g.ensure(k)
	g.labels[g.index[k]] = label
}

// AddEdge adds weight between u and v, creating missing endpoints with a zero
// label. Repeated calls for the same pair accumulate into one edge.
func (g *Graph[K, L]) AddEdge(u, v K, weight float64) {
	ui := g.ensure(u)
	vi := g.ensure(v)

	if ui == vi {
		if !g.hasSelfLoop(ui) {
			g.numEdges++
			g.position[ui][ui] = -1
		}
		g.selfLoops[ui] += weight
		return
	}

	if _, ok := g.position[ui][vi]; !ok {
		g.numEdges++
	}
	g.link(ui, vi, weight)
	g.link(vi, ui, weight)
}

func (g *Graph[K, L]) hasSelfLoop(i int) bool {
	_, ok := g.position[i][i]
	return ok
}

func (g *Graph[K, L]) link(from, to int, weight float64) {
	if at, ok := g.position[from][to]; ok {
		g.weights[from][at] += weight
		return
	}
	g.position[from][to] = len(g.adjacency[from])
	g.adjacency[from] = append(g.adjacency[from], to)
	g.weights[from] = append(g.weights[from], weight)
}

func (g *Graph[K, L]) ensure(k K) int {
	if i, ok := g.index[k]; ok {
		return i
	}
	i := len(g.keys)
	var zero L
	g.index[k] = i
	g.keys = append(g.keys, k)
	g.labels = append(g.labels, zero)
	g.adjacency = append(g.adjacency, nil)
	g.weights = append(g.weights, nil)
	g.position = append(g.position, make(map[int]int))
	g.selfLoops = append(g.selfLoops, 0)
	return i
}

// HasNode reports whether k is a node of the graph
func (g *Graph[K, L]) HasNode(k K) bool {
	_, ok := g.index[k]
	return ok
}

// Order returns the number of nodes
func (g *Graph[K, L]) Order() int { return len(g.keys) }

// Size returns the number of distinct undirected edges, self-loops included
func (g *Graph[K, L]) Size() int { return g.numEdges }

// Nodes returns the node keys in insertion order
func (g *Graph[K, L]) Nodes() []K {
	out := make([]K, len(g.keys))
	copy(out, g.keys)
	return out
}

// Label returns the label attached to k
func (g *Graph[K, L]) Label(k K) (L, error) {
	i, ok := g.index[k]
	if !ok {
		var zero L
		return zero, fmt.Errorf("label: %w: %v", ErrNotFound, k)
	}
	return g.labels[i], nil
}

// SetLabel replaces the label attached to k
func (g *Graph[K, L]) SetLabel(k K, label L) error {
	i, ok := g.index[k]
	if !ok {
		return fmt.Errorf("set label: %w: %v", ErrNotFound, k)
	}
	g.labels[i] = label
	return nil
}

// Neighbors returns the weight-aggregated neighbors of k in first-seen order
// and, separately, the summed weight of its self-loops.
func (g *Graph[K, L]) Neighbors(k K) ([]Neighbor[K], float64, error) {
	i, ok := g.index[k]
	if !ok {
		return nil, 0, fmt.Errorf("neighbors: %w: %v", ErrNotFound, k)
	}

	out := make([]Neighbor[K], len(g.adjacency[i]))
	for j, v := range g.adjacency[i] {
		out[j] = Neighbor[K]{Node: g.keys[v], Weight: g.weights[i][j]}
	}
	return out, g.selfLoops[i], nil
}

// Degree returns the weighted degree of k. Self-loops count twice.
func (g *Graph[K, L]) Degree(k K) (float64, error) {
	i, ok := g.index[k]
	if !ok {
		return 0, fmt.Errorf("degree: %w: %v", ErrNotFound, k)
	}
	d := 2 * g.selfLoops[i]
	for _, w := range g.weights[i] {
		d += w
	}
	return d, nil
}

// Edges returns every undirected edge once, parallel copies summed. Edges are
// ordered by the insertion position of their lower endpoint.
func (g *Graph[K, L]) Edges() []Edge[K] {
	edges := make([]Edge[K], 0, g.numEdges)
	for u := range g.keys {
		if g.hasSelfLoop(u) {
			edges = append(edges, Edge[K]{From: g.keys[u], To: g.keys[u], Weight: g.selfLoops[u]})
		}
		for j, v := range g.adjacency[u] {
			if v > u {
				edges = append(edges, Edge[K]{From: g.keys[u], To: g.keys[v], Weight: g.weights[u][j]})
			}
		}
	}
	return edges
}

// TotalWeight returns the sum of all edge weights (each undirected edge once)
func (g *Graph[K, L]) TotalWeight() float64 {
	total := 0.0
	for _, e := range g.Edges() {
		total += e.Weight
	}
	return total
}
