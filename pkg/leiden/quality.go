package leiden

// The quality function is modularity with a resolution parameter:
//
//	Q = sum_c [ in_c/2m - resolution * (tot_c/2m)^2 ]
//
// where in_c counts each internal edge twice (self-loops included twice),
// tot_c is the summed degree of the community's members and m the graph's
// total weight. resolution > 1 favors many small communities, < 1 few
// large ones.

// Modularity computes the quality of a partition over a graph. A graph
// with no edges scores zero for any partition.
func Modularity(g *Graph, p *Partition, resolution float64) float64 {
	m := g.TotalWeight()
	if m == 0 {
		return 0
	}
	in := make([]float64, p.NumCommunities())
	tot := make([]float64, p.NumCommunities())
	for v := 0; v < g.NumNodes(); v++ {
		c := p.Community(v)
		tot[c] += g.Degree(v)
		in[c] += 2 * g.SelfWeight(v)
		nodes, weights := g.Neighbors(v)
		for i, u := range nodes {
			if p.Community(u) == c {
				in[c] += weights[i]
			}
		}
	}
	return qualityFromAggregates(in, tot, m, resolution)
}

func qualityFromAggregates(in, tot []float64, m, resolution float64) float64 {
	m2 := 2 * m
	q := 0.0
	for c := range tot {
		if tot[c] == 0 {
			continue
		}
		frac := tot[c] / m2
		q += in[c]/m2 - resolution*frac*frac
	}
	return q
}

// quality evaluates the objective from the cached accumulators without
// rescanning the graph.
func (s *communityState) quality(resolution float64) float64 {
	m := s.graph.TotalWeight()
	if m == 0 {
		return 0
	}
	return qualityFromAggregates(s.commIn, s.commTot, m, resolution)
}

// moveGain is the exact change in Q from relocating v into community to,
// relative to staying put. wFrom is v's edge weight into its current
// community (v excluded), wTo its edge weight into the destination. The
// computation touches only the two communities' cached totals, so a full
// gain scan for one node is O(degree(v)).
func (s *communityState) moveGain(v, to int, wFrom, wTo, resolution float64) float64 {
	from := s.nodeToComm[v]
	if to == from {
		return 0
	}
	m := s.graph.TotalWeight()
	deg := s.graph.Degree(v)
	remTot := s.commTot[from] - deg // source total with v removed
	return (wTo-wFrom)/m - resolution*deg*(s.commTot[to]-remTot)/(2*m*m)
}
