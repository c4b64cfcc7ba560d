package louvain

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/gilchrisn/louvain-modularity/pkg/utils"
)

// phaseResult is what one level's local move phase reports
type phaseResult struct {
	moves          int
	passes         int
	modularity     float64
	normalized     float64
	passModularity []float64
}

// localMover reassigns nodes of one level greedily to the community with the
// highest modularity gain until the partition settles.
type localMover struct {
	graph  *workingGraph
	ledger *ledger
	params Params
	rng    *rand.Rand // nil keeps the natural node order

	level    int
	pass     int
	tracker  *utils.MoveTracker
	logger   zerolog.Logger
	progress bool

	// scratch space reused across nodes
	weightTo   []float64
	touched    []int
	isTouched  []bool
	candidates []int
}

func newLocalMover(g *workingGraph, l *ledger, params Params, rng *rand.Rand) *localMover {
	return &localMover{
		graph:     g,
		ledger:    l,
		params:    params,
		rng:       rng,
		logger:    zerolog.Nop(),
		weightTo:  make([]float64, g.numNodes),
		isTouched: make([]bool, g.numNodes),
	}
}

// run repeats passes until a pass moves nothing or the modularity
// improvement between consecutive passes drops below the threshold.
func (m *localMover) run() (phaseResult, error) {
	g := m.graph
	if g.totalWeight == 0 {
		return phaseResult{}, nil
	}

	order := make([]int, g.numNodes)
	for i := range order {
		order[i] = i
	}

	res := phaseResult{}
	previous := modularity(m.ledger, g.totalWeight, m.params.Resolution)

	for {
		if m.rng != nil {
			m.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		m.pass = res.passes + 1
		moved := 0
		for _, node := range order {
			ok, err := m.moveNode(node)
			if err != nil {
				return phaseResult{}, fmt.Errorf("level %d pass %d node %d: %w", m.level, m.pass, node, err)
			}
			if ok {
				moved++
			}
		}

		res.passes++
		res.moves += moved
		current := modularity(m.ledger, g.totalWeight, m.params.Resolution)
		res.passModularity = append(res.passModularity, current)

		if m.progress {
			m.logger.Debug().
				Int("level", m.level).
				Int("pass", res.passes).
				Int("moves", moved).
				Float64("modularity", current).
				Msg("Local move pass")
		}

		if moved == 0 || current-previous < m.params.ModularityIncreaseThreshold {
			break
		}
		previous = current
	}

	res.modularity = res.passModularity[len(res.passModularity)-1]
	res.normalized = normalizedModularity(m.ledger, g.totalWeight, m.params.Resolution)
	return res, nil
}

// moveNode detaches node from its community and re-inserts it where the gain
// is highest. Ties go to the lowest community id; a negative best gain puts
// the node back where it was. It reports whether the community changed.
func (m *localMover) moveNode(node int) (bool, error) {
	g := m.graph
	own := g.community[node]
	degree := g.degrees[node]
	loop := 2 * g.selfLoops[node]

	m.collectCandidates(node, own)
	defer m.resetCandidates()

	if err := m.ledger.depart(own, m.weightTo[own], loop, degree); err != nil {
		return false, err
	}

	best, bestGain := own, math.Inf(-1)
	for _, c := range m.candidates {
		stats, err := m.ledger.get(c)
		if err != nil {
			return false, err
		}
		gc := gain(m.params.Resolution, m.weightTo[c], stats.total, degree, g.totalWeight)
		if gc > bestGain {
			best, bestGain = c, gc
		}
	}

	target := best
	if bestGain < 0 {
		target = own
	}

	if err := m.ledger.arrive(target, m.weightTo[target], loop, degree); err != nil {
		return false, err
	}
	g.community[node] = target

	if target == own {
		return false, nil
	}
	m.tracker.LogMove(m.level, m.pass, node, own, target, bestGain)
	return true, nil
}

// collectCandidates sums the weight from node to every neighboring community
// and lists those communities, plus own, in ascending id order.
func (m *localMover) collectCandidates(node, own int) {
	g := m.graph
	m.touch(own)
	for j, v := range g.adjacency[node] {
		c := g.community[v]
		m.touch(c)
		m.weightTo[c] += g.weights[node][j]
	}

	m.candidates = append(m.candidates[:0], m.touched...)
	sort.Ints(m.candidates)
}

func (m *localMover) touch(c int) {
	if !m.isTouched[c] {
		m.isTouched[c] = true
		m.touched = append(m.touched, c)
	}
}

func (m *localMover) resetCandidates() {
	for _, c := range m.touched {
		m.weightTo[c] = 0
		m.isTouched[c] = false
	}
	m.touched = m.touched[:0]
}
