package louvain

import "fmt"

// renumber assigns dense ids, in order of discovery over the nodes, to the
// communities present in g. renumbered[c] is -1 for ids not in use.
func renumber(g *workingGraph) (renumbered []int, count int) {
	renumbered = make([]int, g.numNodes)
	for i := range renumbered {
		renumbered[i] = -1
	}
	for node := 0; node < g.numNodes; node++ {
		c := g.community[node]
		if renumbered[c] == -1 {
			renumbered[c] = count
			count++
		}
	}
	return renumbered, count
}

// aggregate builds the next level: one node per community, and for every
// unordered pair of communities (self pairs included) one edge carrying the
// summed weight of the edges between them.
func aggregate(g *workingGraph, renumbered []int, count int) (*workingGraph, error) {
	next := newWorkingGraph(count)

	pairs := make(map[[2]int]int, len(g.edges))
	var order [][2]int
	var sums []float64

	for _, e := range g.edges {
		cu, err := lookup(renumbered, g.community[e.u])
		if err != nil {
			return nil, err
		}
		cv, err := lookup(renumbered, g.community[e.v])
		if err != nil {
			return nil, err
		}
		if cu > cv {
			cu, cv = cv, cu
		}

		key := [2]int{cu, cv}
		at, ok := pairs[key]
		if !ok {
			at = len(order)
			pairs[key] = at
			order = append(order, key)
			sums = append(sums, 0)
		}
		sums[at] += e.weight
	}

	for i, key := range order {
		next.addEdge(key[0], key[1], sums[i])
	}

	return next, nil
}

// compose rewrites membership, which maps every original node to a node of
// g, so that it maps to the renumbered community of that node instead.
func compose(membership []int, g *workingGraph, renumbered []int) error {
	for orig, node := range membership {
		if node < 0 || node >= g.numNodes {
			return fmt.Errorf("original node %d: %w: level node %d", orig, ErrUnknownCommunity, node)
		}
		c, err := lookup(renumbered, g.community[node])
		if err != nil {
			return fmt.Errorf("original node %d: %w", orig, err)
		}
		membership[orig] = c
	}
	return nil
}

func lookup(renumbered []int, community int) (int, error) {
	if community < 0 || community >= len(renumbered) || renumbered[community] == -1 {
		return 0, fmt.Errorf("renumbering: %w: %d", ErrUnknownCommunity, community)
	}
	return renumbered[community], nil
}
