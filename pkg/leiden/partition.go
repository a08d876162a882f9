package leiden

import "fmt"

// Partition is a total assignment of graph nodes to dense community ids
// [0, k). Instances are produced by the engine and are read-only to
// callers.
type Partition struct {
	nodeToCommunity []int
	numCommunities  int
}

// NewSingletonPartition places every node of an n-node graph in its own
// community.
func NewSingletonPartition(n int) *Partition {
	assign := make([]int, n)
	for i := range assign {
		assign[i] = i
	}
	return &Partition{nodeToCommunity: assign, numCommunities: n}
}

// NewPartition builds a partition from an explicit node-to-community
// assignment. Community ids are renumbered to dense [0, k) preserving
// ascending order of the supplied ids.
func NewPartition(nodeToCommunity []int) (*Partition, error) {
	for v, c := range nodeToCommunity {
		if c < 0 {
			return nil, fmt.Errorf("%w: node %d assigned negative community %d", ErrMalformedGraph, v, c)
		}
	}
	assign, k := renumberDense(nodeToCommunity)
	return &Partition{nodeToCommunity: assign, numCommunities: k}, nil
}

// Len returns the number of nodes covered by the partition.
func (p *Partition) Len() int { return len(p.nodeToCommunity) }

// NumCommunities returns the community count k.
func (p *Partition) NumCommunities() int { return p.numCommunities }

// Community returns the community id of node v.
func (p *Partition) Community(v int) int { return p.nodeToCommunity[v] }

// Assignments returns a copy of the node-to-community mapping.
func (p *Partition) Assignments() []int {
	out := make([]int, len(p.nodeToCommunity))
	copy(out, p.nodeToCommunity)
	return out
}

// Memberships groups nodes by community, each group in ascending node
// order.
func (p *Partition) Memberships() [][]int {
	groups := make([][]int, p.numCommunities)
	for v, c := range p.nodeToCommunity {
		groups[c] = append(groups[c], v)
	}
	return groups
}

// IsSingleton reports whether every node is its own community.
func (p *Partition) IsSingleton() bool {
	return p.numCommunities == len(p.nodeToCommunity)
}

// renumberDense remaps arbitrary non-negative community ids to dense
// [0, k), assigning dense ids in ascending order of the old ids.
func renumberDense(assign []int) ([]int, int) {
	maxID := -1
	for _, c := range assign {
		if c > maxID {
			maxID = c
		}
	}
	remap := make([]int, maxID+1)
	for i := range remap {
		remap[i] = -1
	}
	for _, c := range assign {
		remap[c] = 0
	}
	k := 0
	for c := range remap {
		if remap[c] == 0 {
			remap[c] = k
			k++
		}
	}
	out := make([]int, len(assign))
	for v, c := range assign {
		out[v] = remap[c]
	}
	return out, k
}

// communityState is the mutable bookkeeping shared by the local-moving
// phase: per-community totals indexed by community id, updated
// incrementally as nodes move. Community ids here are not kept dense;
// emptied communities simply reach zero size.
type communityState struct {
	graph      *Graph
	nodeToComm []int
	commTot    []float64 // k_c: summed degrees of members
	commIn     []float64 // internal weight, undirected edges counted twice
	commSize   []int
}

// newCommunityState initializes the accumulators for an arbitrary starting
// assignment (community ids must lie in [0, len(assign))).
func newCommunityState(g *Graph, assign []int) *communityState {
	n := g.NumNodes()
	s := &communityState{
		graph:      g,
		nodeToComm: make([]int, n),
		commTot:    make([]float64, n),
		commIn:     make([]float64, n),
		commSize:   make([]int, n),
	}
	copy(s.nodeToComm, assign)
	for v := 0; v < n; v++ {
		c := s.nodeToComm[v]
		s.commTot[c] += g.Degree(v)
		s.commIn[c] += 2 * g.SelfWeight(v)
		s.commSize[c]++
		nodes, weights := g.Neighbors(v)
		for i, u := range nodes {
			if s.nodeToComm[u] == c {
				s.commIn[c] += weights[i] // each internal edge seen from both ends
			}
		}
	}
	return s
}

// move relocates v between communities. wFrom and wTo are v's edge weights
// into the source (excluding v) and destination communities; the caller
// has them at hand from gain evaluation.
func (s *communityState) move(v, from, to int, wFrom, wTo float64) {
	deg := s.graph.Degree(v)
	self := s.graph.SelfWeight(v)

	s.commTot[from] -= deg
	s.commIn[from] -= 2 * (wFrom + self)
	s.commSize[from]--

	s.commTot[to] += deg
	s.commIn[to] += 2 * (wTo + self)
	s.commSize[to]++

	s.nodeToComm[v] = to
}

// partition snapshots the current assignment as a dense Partition.
func (s *communityState) partition() *Partition {
	assign, k := renumberDense(s.nodeToComm)
	return &Partition{nodeToCommunity: assign, numCommunities: k}
}
