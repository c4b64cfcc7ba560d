package louvain

// workingGraph is the per-level graph the phases operate on. Node i is its
// own anchor; community[i] is the community it currently belongs to.
type workingGraph struct {
	numNodes  int
	adjacency [][]int     // adjacency[i] = neighbors of node i, self excluded
	weights   [][]float64 // weights[i][j] = weight of edge from node i to adjacency[i][j]
	selfLoops []float64   // selfLoops[i] = weight of the self-loop on node i
	degrees   []float64   // degrees[i] = weighted degree of node i, self-loop counted twice
	edges     []workingEdge

	// totalWeight is the sum of all weighted degrees (twice the edge weight sum)
	totalWeight float64

	community []int
}

// workingEdge is an undirected edge stored once; u == v for self-loops
type workingEdge struct {
	u, v   int
	weight float64
}

func newWorkingGraph(numNodes int) *workingGraph {
	g := &workingGraph{
		numNodes:  numNodes,
		adjacency: make([][]int, numNodes),
		weights:   make([][]float64, numNodes),
		selfLoops: make([]float64, numNodes),
		degrees:   make([]float64, numNodes),
		community: make([]int, numNodes),
	}
	for i := range g.community {
		g.community[i] = i
	}
	return g
}

// addEdge records an undirected edge. Callers add each node pair once.
func (g *workingGraph) addEdge(u, v int, weight float64) {
	g.edges = append(g.edges, workingEdge{u: u, v: v, weight: weight})

	if u == v {
		g.selfLoops[u] += weight
		g.degrees[u] += 2 * weight
		g.totalWeight += 2 * weight
		return
	}

	g.adjacency[u] = append(g.adjacency[u], v)
	g.weights[u] = append(g.weights[u], weight)
	g.adjacency[v] = append(g.adjacency[v], u)
	g.weights[v] = append(g.weights[v], weight)
	g.degrees[u] += weight
	g.degrees[v] += weight
	g.totalWeight += 2 * weight
}

// edgeWeightSum returns the total weight over the stored edges, each once
func (g *workingGraph) edgeWeightSum() float64 {
	total := 0.0
	for _, e := range g.edges {
		total += e.weight
	}
	return total
}
