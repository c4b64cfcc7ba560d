package louvain

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilchrisn/louvain-modularity/pkg/graph"
	"github.com/gilchrisn/louvain-modularity/pkg/utils"
)

func TestLocalMoveSeparatesTriangles(t *testing.T) {
	g := level0(t, twoTriangles(0.1))
	l := newLedger(g)
	initial := modularity(l, g.totalWeight, 1)

	res, err := newLocalMover(g, l, defaultParams(), nil).run()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.moves, 2)
	assert.Equal(t, g.community[0], g.community[1])
	assert.Equal(t, g.community[1], g.community[2])
	assert.Equal(t, g.community[3], g.community[4])
	assert.Equal(t, g.community[4], g.community[5])
	assert.NotEqual(t, g.community[0], g.community[3])

	assert.Greater(t, res.modularity, initial)
	assert.Len(t, res.passModularity, res.passes)
	assert.Equal(t, res.modularity, res.passModularity[len(res.passModularity)-1])
}

func TestLocalMoveTiesGoToLowestCommunity(t *testing.T) {
	// node 0 is equally attracted to the singletons 1 and 2
	src := graph.New[int, int]()
	src.AddEdge(0, 1, 1)
	src.AddEdge(0, 2, 1)
	g := level0(t, src)

	mover := newLocalMover(g, newLedger(g), defaultParams(), nil)
	moved, err := mover.moveNode(0)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 1, g.community[0])
}

func TestLocalMoveIsolatedNodeStays(t *testing.T) {
	src := twoTriangles(0.1)
	src.AddNode("alone", "")
	g := level0(t, src)

	_, err := newLocalMover(g, newLedger(g), defaultParams(), nil).run()
	require.NoError(t, err)

	alone := g.numNodes - 1
	assert.Equal(t, alone, g.community[alone])
	for u := 0; u < alone; u++ {
		assert.NotEqual(t, alone, g.community[u])
	}
}

func TestLocalMoveSelfLoopOnlyNode(t *testing.T) {
	src := twoTriangles(0.1)
	src.AddEdge("loop", "loop", 3)
	g := level0(t, src)
	l := newLedger(g)

	_, err := newLocalMover(g, l, defaultParams(), nil).run()
	require.NoError(t, err)

	node := g.numNodes - 1
	assert.Equal(t, node, g.community[node])

	stats, err := l.get(node)
	require.NoError(t, err)
	assert.Equal(t, 6.0, stats.internal)
	assert.Equal(t, 6.0, stats.total)
}

func TestLocalMoveZeroWeightGraph(t *testing.T) {
	src := graph.New[string, int]()
	src.AddNode("a", 0)
	src.AddNode("b", 0)
	g := level0(t, src)

	res, err := newLocalMover(g, newLedger(g), defaultParams(), nil).run()
	require.NoError(t, err)
	assert.Equal(t, 0, res.moves)
	assert.Equal(t, 0.0, res.modularity)
	assert.Equal(t, []int{0, 1}, g.community)
}

func TestLocalMoveNegativeGainRestores(t *testing.T) {
	// x shares a community with a but has no edge to it; its only neighbor b
	// scores better than staying, yet still negative, so x is put back
	src := graph.New[string, int]()
	src.AddEdge("x", "x", 10)
	src.AddEdge("a", "a", 10)
	src.AddEdge("b", "b", 10)
	src.AddEdge("x", "b", 0.1)
	g := level0(t, src)
	copy(g.community, []int{0, 0, 2})
	l := ledgerFor(g)

	mover := newLocalMover(g, l, defaultParams(), nil)
	moved, err := mover.moveNode(0)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, []int{0, 0, 2}, g.community)

	fresh := ledgerFor(g)
	for _, c := range []int{0, 2} {
		assert.InDelta(t, fresh.stats[c].total, l.stats[c].total, 1e-12)
		assert.InDelta(t, fresh.stats[c].internal, l.stats[c].internal, 1e-12)
	}
}

func TestLocalMoveRandomizedIsReproducible(t *testing.T) {
	params := defaultParams()
	params.Randomized = true

	runOnce := func(seed int64) []int {
		g := level0(t, ringOfCliques(5, 4))
		_, err := newLocalMover(g, newLedger(g), params, rand.New(rand.NewSource(seed))).run()
		require.NoError(t, err)
		return append([]int(nil), g.community...)
	}

	assert.Equal(t, runOnce(11), runOnce(11))
}

func TestLocalMoveReportsMoves(t *testing.T) {
	var buf bytes.Buffer
	tracker := utils.NewMoveTrackerWriter(&buf, "louvain")

	g := level0(t, twoTriangles(0.1))
	mover := newLocalMover(g, newLedger(g), defaultParams(), nil)
	mover.tracker = tracker

	res, err := mover.run()
	require.NoError(t, err)
	require.NoError(t, tracker.Close())

	assert.Equal(t, res.moves, tracker.Moves())
	assert.Equal(t, res.moves, strings.Count(buf.String(), "\n"))
}
