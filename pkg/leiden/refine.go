package leiden

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"
)

// refineSeedStride decorrelates the per-community generators derived from
// one run seed.
const refineSeedStride = 0x9e3779b9

// refineResult carries one community's refinement: a sub-community id per
// member node, local to the community.
type refineResult struct {
	members []int // ascending node ids
	subComm []int // parallel to members, dense [0, numSubs)
	numSubs int
}

// refinePartition re-partitions each community of the local-moving result
// from scratch: members start as singletons and each singleton is merged
// into at most one well-connected sub-community, drawn with probability
// weighted by exp(gain/randomness) over the non-negative-gain candidates
// (randomness = 0 picks the best gain deterministically). Merging only
// along actual edges keeps every resulting sub-community internally
// connected.
//
// Communities are refined concurrently; each writes only its own members'
// slots and derives its generator from the run seed and its community id,
// so the result does not depend on scheduling. The returned partition is
// dense, ordered by (community id, first-merge order), together with the
// coarse community each refined sub-community came from.
func refinePartition(ctx context.Context, g *Graph, coarse *Partition, resolution, randomness float64, seed int64, workers int) (*Partition, []int, error) {
	memberships := coarse.Memberships()
	results := make([]refineResult, len(memberships))

	grp, _ := errgroup.WithContext(ctx)
	if workers > 0 {
		grp.SetLimit(workers)
	}
	for c := range memberships {
		c := c
		grp.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(c+1)*refineSeedStride))
			results[c] = refineCommunity(g, coarse, memberships[c], rng, resolution, randomness)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, nil, err
	}

	// Stitch the per-community sub-partitions into one dense assignment.
	assign := make([]int, g.NumNodes())
	refinedToCoarse := make([]int, 0, g.NumNodes())
	next := 0
	for c, res := range results {
		for i, v := range res.members {
			assign[v] = next + res.subComm[i]
		}
		for s := 0; s < res.numSubs; s++ {
			refinedToCoarse = append(refinedToCoarse, c)
		}
		next += res.numSubs
	}
	return &Partition{nodeToCommunity: assign, numCommunities: next}, refinedToCoarse, nil
}

// refineCommunity refines a single community. members must be in
// ascending node order.
func refineCommunity(g *Graph, coarse *Partition, members []int, rng *rand.Rand, resolution, randomness float64) refineResult {
	m := g.TotalWeight()
	local := make(map[int]int, len(members)) // node -> index into members
	for i, v := range members {
		local[v] = i
	}

	sub := make([]int, len(members)) // member index -> sub-community id
	subTot := make([]float64, len(members))
	subSize := make([]int, len(members))
	for i, v := range members {
		sub[i] = i
		subTot[i] = g.Degree(v)
		subSize[i] = 1
	}

	order := make([]int, len(members))
	copy(order, members)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	weightTo := make(map[int]float64)
	for _, v := range order {
		vi := local[v]
		if subSize[sub[vi]] != 1 {
			continue // only unmerged singletons may move
		}

		for key := range weightTo {
			delete(weightTo, key)
		}
		nodes, weights := g.Neighbors(v)
		for i, u := range nodes {
			ui, inC := local[u]
			if inC {
				weightTo[sub[ui]] += weights[i]
			}
		}

		target, ok := drawTarget(weightTo, sub[vi], g.Degree(v), subTot, m, resolution, randomness, rng)
		if !ok {
			continue
		}
		subTot[target] += g.Degree(v)
		subSize[target]++
		subTot[sub[vi]] = 0
		subSize[sub[vi]] = 0
		sub[vi] = target
	}

	// Renumber surviving sub-communities densely, ascending.
	remap := make([]int, len(members))
	for i := range remap {
		remap[i] = -1
	}
	numSubs := 0
	out := make([]int, len(members))
	for i := range members {
		s := sub[i]
		if remap[s] == -1 {
			remap[s] = numSubs
			numSubs++
		}
		out[i] = remap[s]
	}
	return refineResult{members: members, subComm: out, numSubs: numSubs}
}

// drawTarget selects the sub-community to merge a singleton into, or
// reports none. Candidates must be well-connected to the node: the edge
// weight into the sub-community has to exceed
// resolution/m * k_v * (tot_S - k_v), which filters merges whose
// connection is no better than the null model predicts. Among candidates
// with non-negative gain, randomness > 0 draws proportionally to
// exp(gain/randomness) via a cumulative-weight array; randomness = 0
// takes the maximal gain, ties to the lowest sub-community id.
func drawTarget(weightTo map[int]float64, own int, deg float64, subTot []float64, m, resolution, randomness float64, rng *rand.Rand) (int, bool) {
	subs := make([]int, 0, len(weightTo))
	for s := range weightTo {
		if s != own {
			subs = append(subs, s)
		}
	}
	sort.Ints(subs)

	type candidate struct {
		sub  int
		gain float64
	}
	candidates := make([]candidate, 0, len(subs))
	for _, s := range subs {
		w := weightTo[s]
		if w <= resolution/m*deg*(subTot[s]-deg) {
			continue // not well-connected
		}
		gain := w/m - resolution*deg*subTot[s]/(2*m*m)
		if gain < 0 {
			continue
		}
		candidates = append(candidates, candidate{sub: s, gain: gain})
	}
	if len(candidates) == 0 {
		return 0, false
	}

	if randomness <= 0 {
		best := candidates[0]
		for _, cand := range candidates[1:] {
			if cand.gain > best.gain {
				best = cand
			}
		}
		return best.sub, true
	}

	// Seeded draw over the cumulative weights, shifted by the maximal
	// gain so exp stays bounded as randomness tends to zero.
	maxGain := candidates[0].gain
	for _, cand := range candidates[1:] {
		if cand.gain > maxGain {
			maxGain = cand.gain
		}
	}
	cum := make([]float64, len(candidates))
	total := 0.0
	for i, cand := range candidates {
		total += math.Exp((cand.gain - maxGain) / randomness)
		cum[i] = total
	}
	r := rng.Float64() * total
	idx := sort.SearchFloat64s(cum, r)
	if idx >= len(candidates) {
		idx = len(candidates) - 1
	}
	return candidates[idx].sub, true
}
