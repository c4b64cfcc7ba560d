package louvain

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gilchrisn/louvain-modularity/pkg/graph"
)

// twoTriangles returns triangles a-b-c and d-e-f joined by a light c-d bridge
func twoTriangles(bridge float64) *graph.Graph[string, string] {
	g := graph.New[string, string]()
	for _, k := range []string{"a", "b", "c", "d", "e", "f"} {
		g.AddNode(k, "label-"+k)
	}
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "c", 1)
	g.AddEdge("c", "a", 1)
	g.AddEdge("d", "e", 1)
	g.AddEdge("e", "f", 1)
	g.AddEdge("f", "d", 1)
	g.AddEdge("c", "d", bridge)
	return g
}

// ringOfCliques returns n cliques of size k, consecutive cliques joined by one edge
func ringOfCliques(n, k int) *graph.Graph[int, int] {
	g := graph.New[int, int]()
	for c := 0; c < n; c++ {
		base := c * k
		for i := 0; i < k; i++ {
			g.AddNode(base+i, c)
		}
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				g.AddEdge(base+i, base+j, 1)
			}
		}
	}
	for c := 0; c < n; c++ {
		g.AddEdge(c*k, ((c+1)%n)*k+k-1, 1)
	}
	return g
}

func quietConfig() *Config {
	c := NewConfig()
	c.Set("logging.level", "disabled")
	c.Set("algorithm.random_seed", int64(42))
	return c
}

func quietRun[K comparable, L any](t *testing.T, src Source[K, L], c *Config, opts ...Option) *Result[K, L] {
	t.Helper()
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	res, err := Run(context.Background(), src, c, opts...)
	require.NoError(t, err)
	return res
}

func level0[K comparable, L any](t *testing.T, src Source[K, L]) *workingGraph {
	t.Helper()
	g, err := newAdapter(src).workingGraph()
	require.NoError(t, err)
	return g
}

func defaultParams() Params {
	return Params{ModularityIncreaseThreshold: 0.001, Resolution: 1}
}

// ledgerFor rebuilds a ledger from scratch for the communities currently set on g
func ledgerFor(g *workingGraph) *ledger {
	l := &ledger{
		stats: make([]communityStats, g.numNodes),
		known: make([]bool, g.numNodes),
	}
	for i := range l.known {
		l.known[i] = true
	}
	for u := 0; u < g.numNodes; u++ {
		c := g.community[u]
		l.stats[c].total += g.degrees[u]
		l.stats[c].internal += 2 * g.selfLoops[u]
		for j, v := range g.adjacency[u] {
			if g.community[v] == c {
				l.stats[c].internal += g.weights[u][j]
			}
		}
	}
	return l
}

func sameCommunity[K comparable, L any](t *testing.T, res *Result[K, L], keys ...K) {
	t.Helper()
	require.NotEmpty(t, keys)
	want := res.FinalCommunities[keys[0]]
	for _, k := range keys[1:] {
		require.Equal(t, want, res.FinalCommunities[k], fmt.Sprintf("%v and %v should share a community", keys[0], k))
	}
}
