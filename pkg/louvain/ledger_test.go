package louvain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilchrisn/louvain-modularity/pkg/graph"
)

func TestNewLedgerSingletons(t *testing.T) {
	src := graph.New[string, int]()
	src.AddEdge("a", "b", 2)
	src.AddEdge("a", "a", 1.5)
	src.AddEdge("b", "c", 1)
	g := level0(t, src)

	l := newLedger(g)

	sum := 0.0
	for c := 0; c < g.numNodes; c++ {
		stats, err := l.get(c)
		require.NoError(t, err)
		assert.Equal(t, c, g.community[c])
		assert.LessOrEqual(t, stats.internal, stats.total)
		sum += stats.total
	}
	assert.InDelta(t, g.totalWeight, sum, 1e-12, "community totals add up to total graph weight")

	a, _ := l.get(0)
	assert.Equal(t, 2+2*1.5, a.total)
	assert.Equal(t, 3.0, a.internal, "self-loop counts twice")
}

func TestLedgerDepartArriveAreInverse(t *testing.T) {
	g := level0(t, twoTriangles(0.1))
	l := newLedger(g)

	before, err := l.get(1)
	require.NoError(t, err)

	// node 0 joins community 1 over an edge of weight 1, then leaves again
	require.NoError(t, l.arrive(1, 1, 0, g.degrees[0]))
	joined, _ := l.get(1)
	assert.Equal(t, before.total+g.degrees[0], joined.total)
	assert.Equal(t, before.internal+2, joined.internal)

	require.NoError(t, l.depart(1, 1, 0, g.degrees[0]))
	after, _ := l.get(1)
	assert.InDelta(t, before.total, after.total, 1e-12)
	assert.InDelta(t, before.internal, after.internal, 1e-12)
}

func TestLedgerUnknownCommunity(t *testing.T) {
	g := level0(t, twoTriangles(0.1))
	l := newLedger(g)

	_, err := l.get(99)
	assert.ErrorIs(t, err, ErrUnknownCommunity)
	assert.Contains(t, err.Error(), "99")

	assert.ErrorIs(t, l.depart(-1, 0, 0, 1), ErrUnknownCommunity)
	assert.ErrorIs(t, l.arrive(6, 0, 0, 1), ErrUnknownCommunity)
}

func TestLedgerMatchesRecomputationAfterMoves(t *testing.T) {
	g := level0(t, ringOfCliques(4, 5))
	l := newLedger(g)

	mover := newLocalMover(g, l, defaultParams(), nil)
	_, err := mover.run()
	require.NoError(t, err)

	fresh := ledgerFor(g)
	for c := 0; c < g.numNodes; c++ {
		assert.InDelta(t, fresh.stats[c].total, l.stats[c].total, 1e-9, "total of community %d", c)
		assert.InDelta(t, fresh.stats[c].internal, l.stats[c].internal, 1e-9, "internal of community %d", c)
	}
}
