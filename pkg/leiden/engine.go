package leiden

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Status reports how a run terminated.
type Status string

const (
	// StatusConverged means no further coarsening was possible.
	StatusConverged Status = "converged"
	// StatusMaxLevelsReached means the configured level cap stopped the
	// run first; a soft limit, not an error.
	StatusMaxLevelsReached Status = "max_levels_reached"
	// StatusCancelled means the context was cancelled between levels;
	// the result holds the best hierarchy completed so far.
	StatusCancelled Status = "cancelled"
)

// LevelInfo is one level of the hierarchy, expressed over the original
// graph's nodes.
type LevelInfo struct {
	Level           int     `json:"level"`
	NodeToCommunity []int   `json:"node_to_community"`
	NumCommunities  int     `json:"num_communities"`
	NumMoves        int     `json:"num_moves"`
	Quality         float64 `json:"quality"`
	RuntimeMS       int64   `json:"runtime_ms"`
}

// Statistics contains run-wide metrics.
type Statistics struct {
	TotalMoves int   `json:"total_moves"`
	RuntimeMS  int64 `json:"runtime_ms"`
}

// Result is the output hierarchy: one LevelInfo per aggregation level,
// coarsest last, plus the final assignment and achieved quality.
type Result struct {
	Levels           []LevelInfo `json:"levels"`
	FinalCommunities []int       `json:"final_communities"`
	Quality          float64     `json:"quality"`
	NumLevels        int         `json:"num_levels"`
	Status           Status      `json:"status"`
	Statistics       Statistics  `json:"statistics"`
}

// RunEdges builds the graph from an edge list and runs the algorithm.
// Duplicate edges are summed unless the config requests strict edges.
func RunEdges(ctx context.Context, numNodes int, edges []Edge, config *Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	build := NewGraph
	if config.StrictEdges() {
		build = NewGraphStrict
	}
	graph, err := build(numNodes, edges)
	if err != nil {
		return nil, err
	}
	return Run(ctx, graph, config)
}

// Run executes hierarchical community detection on a prebuilt graph:
// local moving, refinement and aggregation per level until convergence,
// the level cap, or cancellation. Identical graph, config and seed always
// produce an identical result.
func Run(ctx context.Context, graph *Graph, config *Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if graph == nil || graph.NumNodes() == 0 {
		return nil, fmt.Errorf("%w: nil or empty graph", ErrMalformedGraph)
	}

	startTime := time.Now()
	logger := config.CreateLogger()
	resolution := config.Resolution()

	logger.Info().
		Int("nodes", graph.NumNodes()).
		Float64("total_weight", graph.TotalWeight()).
		Float64("resolution", resolution).
		Int64("seed", config.Seed()).
		Msg("Starting community detection")

	result := &Result{Levels: make([]LevelInfo, 0), Status: StatusMaxLevelsReached}

	// An edgeless graph has quality zero under every partition; report
	// the singleton partition at level 0 and stop.
	if graph.TotalWeight() == 0 {
		singleton := NewSingletonPartition(graph.NumNodes())
		result.Levels = append(result.Levels, LevelInfo{
			Level:           0,
			NodeToCommunity: singleton.Assignments(),
			NumCommunities:  singleton.NumCommunities(),
		})
		finishResult(result, StatusConverged, startTime)
		return result, nil
	}

	rng := rand.New(rand.NewSource(config.Seed()))

	current := graph
	seedAssign := NewSingletonPartition(current.NumNodes()).Assignments()
	origToCurrent := NewSingletonPartition(graph.NumNodes()).Assignments()

	for level := 0; level < config.MaxLevels(); level++ {
		// The abort signal is only honored between levels so a level is
		// never left half-optimized.
		if level > 0 && ctx.Err() != nil {
			logger.Warn().Int("level", level).Msg("Cancelled, returning best hierarchy so far")
			finishResult(result, StatusCancelled, startTime)
			return result, nil
		}

		levelStart := time.Now()
		state := newCommunityState(current, seedAssign)
		moves := localMove(state, rng, resolution, logger)
		coarse := state.partition()

		refined, refinedToCoarse, err := refinePartition(ctx, current, coarse,
			resolution, config.Randomness(), rng.Int63(), config.NumWorkers())
		if err != nil {
			return nil, fmt.Errorf("refinement failed at level %d: %w", level, err)
		}

		if refined.NumCommunities() == current.NumNodes() {
			// No merging happened: the hierarchy is complete. A run that
			// cannot coarsen its input at all still reports the singleton
			// partition as level 0.
			if level == 0 {
				result.Levels = append(result.Levels, LevelInfo{
					Level:           0,
					NodeToCommunity: composeAssignment(origToCurrent, refined),
					NumCommunities:  refined.NumCommunities(),
					NumMoves:        moves,
					Quality:         Modularity(current, refined, resolution),
					RuntimeMS:       time.Since(levelStart).Milliseconds(),
				})
				result.Statistics.TotalMoves += moves
			}
			logger.Info().Int("level", level).Msg("No further merging, stopping")
			finishResult(result, StatusConverged, startTime)
			return result, nil
		}

		quality := Modularity(current, refined, resolution)
		result.Levels = append(result.Levels, LevelInfo{
			Level:           level,
			NodeToCommunity: composeAssignment(origToCurrent, refined),
			NumCommunities:  refined.NumCommunities(),
			NumMoves:        moves,
			Quality:         quality,
			RuntimeMS:       time.Since(levelStart).Milliseconds(),
		})
		result.Statistics.TotalMoves += moves

		logger.Info().
			Int("level", level).
			Int("nodes", current.NumNodes()).
			Int("communities", refined.NumCommunities()).
			Int("moves", moves).
			Float64("quality", quality).
			Msg("Level completed")

		// Aggregate over the refined partition, but seed the next level
		// with the coarse pre-refinement communities: the finer structure
		// shapes the graph while the coarser one steers the next
		// optimization.
		aggregate := current.Aggregate(refined)
		origToCurrent = composeAssignment(origToCurrent, refined)
		current = aggregate
		seedAssign = refinedToCoarse
	}

	logger.Info().Int("max_levels", config.MaxLevels()).Msg("Level cap reached, stopping")
	finishResult(result, StatusMaxLevelsReached, startTime)
	return result, nil
}

// composeAssignment maps original nodes through the current level's
// partition.
func composeAssignment(origToCurrent []int, p *Partition) []int {
	out := make([]int, len(origToCurrent))
	for i, cur := range origToCurrent {
		out[i] = p.Community(cur)
	}
	return out
}

func finishResult(result *Result, status Status, startTime time.Time) {
	result.Status = status
	result.NumLevels = len(result.Levels)
	if result.NumLevels > 0 {
		last := result.Levels[result.NumLevels-1]
		result.FinalCommunities = last.NodeToCommunity
		result.Quality = last.Quality
	}
	result.Statistics.RuntimeMS = time.Since(startTime).Milliseconds()
}
