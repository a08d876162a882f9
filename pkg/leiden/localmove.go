package leiden

import (
	"math/rand"

	"github.com/rs/zerolog"
)

// gainEpsilon guards the strict-improvement tests against floating-point
// jitter; a move must beat it to be committed or the queue could cycle.
const gainEpsilon = 1e-12

// localMove runs the queue-driven first phase on the state's current
// assignment. Nodes start queued in seeded-shuffle order; popping a node,
// the move with strictly maximal gain among its neighbor communities is
// committed when positive (ties broken by lowest community id), and every
// neighbor outside the destination is re-queued. The queue emptying means
// no single-node move can improve the objective. Returns the number of
// committed moves.
func localMove(s *communityState, rng *rand.Rand, resolution float64, logger zerolog.Logger) int {
	g := s.graph
	n := g.NumNodes()

	queue := make([]int, n)
	for i := range queue {
		queue[i] = i
	}
	rng.Shuffle(n, func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
	inQueue := make([]bool, n)
	for i := range inQueue {
		inQueue[i] = true
	}

	moves := 0
	neighborWeights := make(map[int]float64)

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		inQueue[v] = false

		cur := s.nodeToComm[v]
		nodes, weights := g.Neighbors(v)
		for key := range neighborWeights {
			delete(neighborWeights, key)
		}
		for i, u := range nodes {
			neighborWeights[s.nodeToComm[u]] += weights[i]
		}
		wFrom := neighborWeights[cur]

		best := cur
		bestGain := 0.0
		for target, wTo := range neighborWeights {
			if target == cur {
				continue
			}
			gain := s.moveGain(v, target, wFrom, wTo, resolution)
			// Lowest-id tie-break keeps the choice independent of map
			// iteration order.
			if gain > bestGain || (gain == bestGain && bestGain > 0 && target < best) {
				best = target
				bestGain = gain
			}
		}

		if best == cur || bestGain <= gainEpsilon {
			continue
		}
		s.move(v, cur, best, wFrom, neighborWeights[best])
		moves++

		for _, u := range nodes {
			if s.nodeToComm[u] != best && !inQueue[u] {
				queue = append(queue, u)
				inQueue[u] = true
			}
		}
	}

	logger.Debug().Int("moves", moves).Msg("Local moving converged")
	return moves
}
