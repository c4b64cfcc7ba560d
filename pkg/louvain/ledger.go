package louvain

import "fmt"

// communityStats holds the ledger entry of one community
type communityStats struct {
	total    float64 // sum of the weighted degrees of its members
	internal float64 // sum of weights between members, each pair both ways, self-loops twice
}

// ledger tracks per-community statistics for one level. Community ids are
// the dense node ids of the level, so entries live in a slice.
type ledger struct {
	stats []communityStats
	known []bool
}

// newLedger puts every node of g in its own community and records its
// degree and self-loop weight.
func newLedger(g *workingGraph) *ledger {
	l := &ledger{
		stats: make([]communityStats, g.numNodes),
		known: make([]bool, g.numNodes),
	}
	for i := 0; i < g.numNodes; i++ {
		g.community[i] = i
		l.stats[i] = communityStats{total: g.degrees[i], internal: 2 * g.selfLoops[i]}
		l.known[i] = true
	}
	return l
}

func (l *ledger) get(community int) (communityStats, error) {
	if community < 0 || community >= len(l.stats) || !l.known[community] {
		return communityStats{}, fmt.Errorf("ledger: %w: %d", ErrUnknownCommunity, community)
	}
	return l.stats[community], nil
}

// depart removes a node from community. weightToCommunity is the weight from
// the node to the other members, selfLoop its own internal contribution.
func (l *ledger) depart(community int, weightToCommunity, selfLoop, nodeDegree float64) error {
	if _, err := l.get(community); err != nil {
		return err
	}
	s := &l.stats[community]
	s.total -= nodeDegree
	s.internal -= 2*weightToCommunity + selfLoop
	return nil
}

// arrive is the inverse of depart
func (l *ledger) arrive(community int, weightToCommunity, selfLoop, nodeDegree float64) error {
	if _, err := l.get(community); err != nil {
		return err
	}
	s := &l.stats[community]
	s.total += nodeDegree
	s.internal += 2*weightToCommunity + selfLoop
	return nil
}
