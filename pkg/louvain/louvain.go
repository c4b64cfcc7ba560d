// Package louvain detects communities in weighted undirected graphs by
// multi-level modularity optimization (the Louvain method).
//
// Each level greedily moves nodes between communities until the partition
// settles, then collapses every community into a single node and repeats on
// the smaller graph. The run stops once a level makes fewer than two moves or
// ends with lower modularity than the level before it.
package louvain

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gilchrisn/louvain-modularity/pkg/metrics"
	"github.com/gilchrisn/louvain-modularity/pkg/utils"
)

// Option customizes a single run
type Option func(*runOptions)

type runOptions struct {
	rng     *rand.Rand
	logger  *zerolog.Logger
	tracker *utils.MoveTracker
	metrics *metrics.Registry
}

// WithRand injects the random source used to shuffle node order. It is only
// consulted when the run is randomized.
func WithRand(rng *rand.Rand) Option {
	return func(o *runOptions) { o.rng = rng }
}

// WithLogger replaces the logger created from the config
func WithLogger(logger zerolog.Logger) Option {
	return func(o *runOptions) { o.logger = &logger }
}

// WithMoveTracker records every node move to mt
func WithMoveTracker(mt *utils.MoveTracker) Option {
	return func(o *runOptions) { o.tracker = mt }
}

// WithMetrics records run statistics into reg
func WithMetrics(reg *metrics.Registry) Option {
	return func(o *runOptions) { o.metrics = reg }
}

// runState is everything a run mutates. It is owned by a single Run call.
type runState struct {
	graph      *workingGraph
	membership []int // original dense id -> node of the current level
	level      int
}

// Run executes the complete Louvain algorithm on src. A nil config uses the
// defaults. ctx is checked between levels only.
func Run[K comparable, L any](ctx context.Context, src Source[K, L], config *Config, opts ...Option) (*Result[K, L], error) {
	startTime := time.Now()
	if config == nil {
		config = NewConfig()
	}

	options := runOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	runID := uuid.New().String()
	var logger zerolog.Logger
	if options.logger != nil {
		logger = *options.logger
	} else {
		logger = config.CreateLogger()
	}
	logger = logger.With().Str("run_id", runID).Logger()

	params, err := config.Params()
	if err != nil {
		options.metrics.ObserveRun(metrics.StatusError, time.Since(startTime), 0, 0, 0)
		return nil, err
	}

	if options.tracker == nil && config.EnableMoveTracking() {
		tracker, err := utils.NewMoveTracker(config.TrackingOutputFile(), "louvain")
		if err != nil {
			options.metrics.ObserveRun(metrics.StatusError, time.Since(startTime), 0, 0, 0)
			return nil, err
		}
		defer func() {
			if cerr := tracker.Close(); cerr != nil {
				logger.Warn().Err(cerr).Msg("Closing move tracker failed")
			}
		}()
		options.tracker = tracker
	}

	var rng *rand.Rand
	if params.Randomized {
		rng = options.rng
		if rng == nil {
			rng = rand.New(rand.NewSource(params.RandomSeed))
		}
	}

	result, err := run(ctx, src, params, rng, config.EnableProgress(), options, logger)
	if err != nil {
		options.metrics.ObserveRun(metrics.StatusError, time.Since(startTime), 0, 0, 0)
		return nil, err
	}

	result.RunID = runID
	result.Statistics.RuntimeMS = time.Since(startTime).Milliseconds()
	result.Statistics.MemoryPeakMB = getMemoryUsage()
	options.metrics.ObserveRun(metrics.StatusSuccess, time.Since(startTime), result.NumLevels, result.NumCommunities, result.Modularity)

	logger.Info().
		Int("levels", result.NumLevels).
		Int("communities", result.NumCommunities).
		Float64("final_modularity", result.Modularity).
		Int64("runtime_ms", result.Statistics.RuntimeMS).
		Msg("Louvain algorithm completed")

	return result, nil
}

func run[K comparable, L any](ctx context.Context, src Source[K, L], params Params, rng *rand.Rand, progress bool, options runOptions, logger zerolog.Logger) (*Result[K, L], error) {
	adapt := newAdapter(src)
	base, err := adapt.workingGraph()
	if err != nil {
		return nil, fmt.Errorf("build working graph: %w", err)
	}

	logger.Info().
		Int("nodes", base.numNodes).
		Float64("total_weight", base.edgeWeightSum()).
		Bool("randomized", params.Randomized).
		Float64("resolution", params.Resolution).
		Msg("Starting Louvain algorithm")

	state := &runState{graph: base, membership: make([]int, base.numNodes)}
	for i := range state.membership {
		state.membership[i] = i
	}

	// The singleton partition is what a run that never folds a level reports.
	singletons := newLedger(base)
	result := &Result[K, L]{
		Modularity:           modularity(singletons, base.totalWeight, params.Resolution),
		NormalizedModularity: normalizedModularity(singletons, base.totalWeight, params.Resolution),
	}
	previousQ := 0.0

	for ; ; state.level++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		levelStart := time.Now()
		current := state.graph

		mover := newLocalMover(current, newLedger(current), params, rng)
		mover.level = state.level
		mover.tracker = options.tracker
		mover.logger = logger
		mover.progress = progress

		phase, err := mover.run()
		if err != nil {
			return nil, fmt.Errorf("local optimization failed at level %d: %w", state.level, err)
		}

		renumbered, count := renumber(current)
		info := LevelInfo{
			Level:                state.level,
			NumNodes:             current.numNodes,
			NumCommunities:       count,
			NumMoves:             phase.moves,
			NumPasses:            phase.passes,
			PassModularity:       phase.passModularity,
			Modularity:           phase.modularity,
			NormalizedModularity: phase.normalized,
			RuntimeMS:            time.Since(levelStart).Milliseconds(),
		}
		result.Levels = append(result.Levels, info)
		result.Statistics.TotalMoves += phase.moves
		result.Statistics.TotalPasses += phase.passes
		options.metrics.ObserveLevel(phase.moves, phase.passes)

		logger.Info().
			Int("level", state.level).
			Int("nodes", current.numNodes).
			Int("communities", count).
			Int("moves", phase.moves).
			Float64("modularity", phase.modularity).
			Msg("Level completed")

		// A stopping level is discarded: its moves never reach the membership.
		if stop := decideStop(state.level, phase.moves, phase.modularity, previousQ); stop != keepGoing {
			logger.Info().
				Int("level", state.level).
				Int("moves", phase.moves).
				Float64("modularity", phase.modularity).
				Float64("previous_modularity", previousQ).
				Str("reason", stop.String()).
				Msg("Stopping, keeping previous level")
			break
		}

		if err := compose(state.membership, current, renumbered); err != nil {
			return nil, fmt.Errorf("composition failed at level %d: %w", state.level, err)
		}
		result.Modularity = phase.modularity
		result.NormalizedModularity = phase.normalized

		next, err := aggregate(current, renumbered, count)
		if err != nil {
			return nil, fmt.Errorf("aggregation failed at level %d: %w", state.level, err)
		}

		logger.Info().
			Int("original_nodes", current.numNodes).
			Int("super_nodes", next.numNodes).
			Float64("compression_ratio", float64(next.numNodes)/float64(current.numNodes)).
			Msg("Graph aggregation completed")

		state.graph = next
		previousQ = phase.modularity
	}

	out, communities, err := adapt.output(state.membership)
	if err != nil {
		return nil, err
	}

	result.Graph = out
	result.FinalCommunities = communities
	result.NumLevels = len(result.Levels)
	result.NumCommunities = countDistinct(state.membership)
	return result, nil
}

// stopRule says why the outer loop ends after a level, if it does
type stopRule int

const (
	keepGoing stopRule = iota
	tooFewMoves
	modularityDecreased
)

func (r stopRule) String() string {
	switch r {
	case tooFewMoves:
		return "too_few_moves"
	case modularityDecreased:
		return "modularity_decreased"
	default:
		return "continue"
	}
}

// decideStop applies the outer loop's stop rules to a finished level.
// previousQ is the modularity of the last folded level and is ignored at
// level 0.
func decideStop(level, moves int, q, previousQ float64) stopRule {
	if moves < 2 {
		return tooFewMoves
	}
	if level > 0 && q < previousQ {
		return modularityDecreased
	}
	return keepGoing
}

func countDistinct(membership []int) int {
	seen := make(map[int]struct{}, len(membership))
	for _, c := range membership {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// getMemoryUsage returns current memory usage in MB
func getMemoryUsage() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
