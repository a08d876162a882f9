package leiden

import (
	"fmt"
	"math"
	"sort"
)

// Edge is one undirected weighted edge of the input graph. U == V is a
// self-loop. Duplicate (U, V) pairs are summed during construction unless
// strict mode is requested.
type Edge struct {
	U      int     `json:"u"`
	V      int     `json:"v"`
	Weight float64 `json:"weight"`
}

// Graph is an immutable weighted undirected graph over dense node ids
// [0, n). Adjacency lists exclude self-loops and are sorted by neighbor
// id, so iteration order is deterministic and re-iterable. Self-loop
// weight is kept separately per node.
type Graph struct {
	numNodes    int
	adjacency   [][]int
	weights     [][]float64
	selfWeights []float64
	degrees     []float64 // weighted degree, self-loops counted twice
	totalWeight float64   // sum of edge weights, self-loops counted once
}

// NewGraph builds a graph with numNodes nodes from an edge list.
// Duplicate edges are summed. It fails with ErrMalformedGraph on a
// non-positive node count, an out-of-range endpoint, or a negative or
// non-finite weight.
func NewGraph(numNodes int, edges []Edge) (*Graph, error) {
	return buildGraph(numNodes, edges, false)
}

// NewGraphStrict is NewGraph but rejects duplicate edges (including a
// repeated self-loop) instead of summing them.
func NewGraphStrict(numNodes int, edges []Edge) (*Graph, error) {
	return buildGraph(numNodes, edges, true)
}

func buildGraph(numNodes int, edges []Edge, strict bool) (*Graph, error) {
	if numNodes <= 0 {
		return nil, fmt.Errorf("%w: graph must have at least one node, got %d", ErrMalformedGraph, numNodes)
	}

	// Collapse the edge list into one weight per unordered pair.
	type pairKey struct{ u, v int }
	collapsed := make(map[pairKey]float64, len(edges))
	for _, e := range edges {
		if e.U < 0 || e.U >= numNodes || e.V < 0 || e.V >= numNodes {
			return nil, fmt.Errorf("%w: edge (%d, %d) outside node range [0, %d)", ErrMalformedGraph, e.U, e.V, numNodes)
		}
		if e.Weight < 0 || math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return nil, fmt.Errorf("%w: edge (%d, %d) has invalid weight %v", ErrMalformedGraph, e.U, e.V, e.Weight)
		}
		key := pairKey{e.U, e.V}
		if e.V < e.U {
			key = pairKey{e.V, e.U}
		}
		if _, dup := collapsed[key]; dup && strict {
			return nil, fmt.Errorf("%w: duplicate edge (%d, %d) in strict mode", ErrMalformedGraph, e.U, e.V)
		}
		collapsed[key] += e.Weight
	}

	g := &Graph{
		numNodes:    numNodes,
		adjacency:   make([][]int, numNodes),
		weights:     make([][]float64, numNodes),
		selfWeights: make([]float64, numNodes),
		degrees:     make([]float64, numNodes),
	}
	for key, w := range collapsed {
		g.addCollapsedEdge(key.u, key.v, w)
	}
	g.sortAdjacency()
	return g, nil
}

// addCollapsedEdge assumes (u, v) is unique and validated.
func (g *Graph) addCollapsedEdge(u, v int, weight float64) {
	if u == v {
		g.selfWeights[u] += weight
		g.degrees[u] += 2 * weight
	} else {
		g.adjacency[u] = append(g.adjacency[u], v)
		g.weights[u] = append(g.weights[u], weight)
		g.adjacency[v] = append(g.adjacency[v], u)
		g.weights[v] = append(g.weights[v], weight)
		g.degrees[u] += weight
		g.degrees[v] += weight
	}
	g.totalWeight += weight
}

func (g *Graph) sortAdjacency() {
	for v := range g.adjacency {
		sort.Sort(&neighborsByID{g.adjacency[v], g.weights[v]})
	}
}

type neighborsByID struct {
	nodes   []int
	weights []float64
}

func (s *neighborsByID) Len() int           { return len(s.nodes) }
func (s *neighborsByID) Less(i, j int) bool { return s.nodes[i] < s.nodes[j] }
func (s *neighborsByID) Swap(i, j int) {
	s.nodes[i], s.nodes[j] = s.nodes[j], s.nodes[i]
	s.weights[i], s.weights[j] = s.weights[j], s.weights[i]
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return g.numNodes }

// TotalWeight returns the sum of all edge weights, counting self-loops once.
func (g *Graph) TotalWeight() float64 { return g.totalWeight }

// Degree returns the weighted degree of node v, counting self-loops twice.
func (g *Graph) Degree(v int) float64 { return g.degrees[v] }

// SelfWeight returns the accumulated self-loop weight of node v.
func (g *Graph) SelfWeight(v int) float64 { return g.selfWeights[v] }

// Neighbors returns the neighbors of v and the matching edge weights,
// sorted by neighbor id and excluding self-loops. The returned slices are
// shared with the graph and must not be modified.
func (g *Graph) Neighbors(v int) ([]int, []float64) {
	return g.adjacency[v], g.weights[v]
}

// EdgeWeight returns the weight of the edge between u and v, or zero when
// no edge exists. Self-loop weights are reported for u == v.
func (g *Graph) EdgeWeight(u, v int) float64 {
	if u == v {
		return g.selfWeights[u]
	}
	adj := g.adjacency[u]
	i := sort.SearchInts(adj, v)
	if i < len(adj) && adj[i] == v {
		return g.weights[u][i]
	}
	return 0
}

// Aggregate collapses the graph along a partition: one node per community,
// cross-community edge weights summed, intra-community weight (plus
// original self-loops) becoming the aggregate node's self-loop. The total
// weight is preserved exactly. The result is independent of the order in
// which the original edges were supplied: communities map to aggregate
// nodes by ascending community id and edges are emitted in sorted order.
func (g *Graph) Aggregate(p *Partition) *Graph {
	k := p.NumCommunities()
	agg := &Graph{
		numNodes:    k,
		adjacency:   make([][]int, k),
		weights:     make([][]float64, k),
		selfWeights: make([]float64, k),
		degrees:     make([]float64, k),
	}

	type pairKey struct{ c, d int }
	cross := make(map[pairKey]float64)
	intra := make([]float64, k)

	for v := 0; v < g.numNodes; v++ {
		c := p.Community(v)
		intra[c] += g.selfWeights[v]
		nodes, weights := g.Neighbors(v)
		for i, u := range nodes {
			if u < v {
				continue // count each undirected edge once
			}
			d := p.Community(u)
			switch {
			case c == d:
				intra[c] += weights[i]
			case c < d:
				cross[pairKey{c, d}] += weights[i]
			default:
				cross[pairKey{d, c}] += weights[i]
			}
		}
	}

	for c := 0; c < k; c++ {
		if intra[c] > 0 {
			agg.addCollapsedEdge(c, c, intra[c])
		}
	}
	keys := make([]pairKey, 0, len(cross))
	for key := range cross {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].c != keys[j].c {
			return keys[i].c < keys[j].c
		}
		return keys[i].d < keys[j].d
	})
	for _, key := range keys {
		agg.addCollapsedEdge(key.c, key.d, cross[key])
	}
	agg.sortAdjacency()
	return agg
}
