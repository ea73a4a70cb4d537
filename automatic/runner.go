// Package automatic runs populations of Tetris instances in lock-step
// and evolves their scoring weights across generations.
package automatic

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/tetro/board"
	"github.com/domino14/tetro/config"
	"github.com/domino14/tetro/equity"
	"github.com/domino14/tetro/game"
	"github.com/domino14/tetro/movegen"
	"github.com/domino14/tetro/tetromino"
)

// reseedFloor: when the top-selection average fitness sits at or below
// this, the population has degenerated and is rebuilt from fresh random
// weights instead of crossover.
const reseedFloor = 0.1

// instance bundles one game with the machinery that picks its moves.
// Everything in here is exclusively owned by the instance, so per-tick
// updates can run on separate worker threads.
type instance struct {
	set     *tetromino.Set
	game    *game.Game
	calc    *equity.HeuristicCalculator
	gen     *movegen.Generator
	scratch *board.Grid
}

// PopulationRunner is the master struct for the evolutionary training
// loop. It owns the population, commits the best static placement for
// every live instance each tick, and runs the genetic step at the
// all-terminal barrier.
type PopulationRunner struct {
	cfg *config.Config
	set *tetromino.Set

	instances []*instance
	// evolveRand drives weight sampling, parent selection, crossover
	// split points and the derivation of per-instance bag seeds, so one
	// master seed reproduces an entire run.
	evolveRand *rand.Rand

	generation int
	lastResult *GenerationResult
	logchan    chan<- string
}

// GenerationResult summarizes one finished generation for logging and
// persistence.
type GenerationResult struct {
	Generation  int
	Fitnesses   []int // descending
	BestWeights *equity.Weights
	Mean        float64
	TopMean     float64
}

// NewPopulationRunner validates the configuration, builds a population
// of populationSize instances with fresh random weight vectors, and
// seeds all randomness from the given master seed.
func NewPopulationRunner(cfg *config.Config, set *tetromino.Set, seed int64,
	logchan chan<- string) (*PopulationRunner, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &PopulationRunner{
		cfg:        cfg,
		set:        set,
		evolveRand: rand.New(rand.NewSource(seed)),
		logchan:    logchan,
	}
	log.Debug().Int64("seed", seed).Msg("population-runner-seed")

	weights := make([]*equity.Weights, cfg.PopulationSize)
	for i := range weights {
		weights[i] = equity.RandomWeights(cfg.GridWidth, r.evolveRand)
	}
	r.resetPopulation(weights)
	return r, nil
}

// resetPopulation discards all instances and builds fresh ones around
// the given weight vectors. Bag seeds derive from evolveRand, so they
// are reproducible but differ per instance and per generation.
func (r *PopulationRunner) resetPopulation(weights []*equity.Weights) {
	r.instances = make([]*instance, len(weights))
	for i, w := range weights {
		bagSource := rand.New(rand.NewSource(r.evolveRand.Int63()))
		r.instances[i] = &instance{
			set:     r.set,
			game:    game.NewGame(r.set, bagSource),
			calc:    equity.NewHeuristicCalculator(w, r.cfg.GridWidth),
			gen:     movegen.NewGenerator(r.set),
			scratch: board.NewGrid(r.cfg.GridWidth, r.cfg.GridHeight),
		}
	}
}

// Generation returns the zero-based index of the generation currently
// being played.
func (r *PopulationRunner) Generation() int { return r.generation }

// NumInstances returns the population size.
func (r *PopulationRunner) NumInstances() int { return len(r.instances) }

// Game exposes instance i's game, read-only, for the spectator.
func (r *PopulationRunner) Game(i int) *game.Game { return r.instances[i].game }

// Weights exposes instance i's weight vector, read-only.
func (r *PopulationRunner) Weights(i int) *equity.Weights {
	return r.instances[i].calc.Weights()
}

// LastResult returns the summary of the most recently finished
// generation, or nil before the first one completes.
func (r *PopulationRunner) LastResult() *GenerationResult { return r.lastResult }

// SetWeights replaces instance i's weight vector, typically with one
// loaded from a snapshot. The vector must match the configured grid
// width and the weight caps.
func (r *PopulationRunner) SetWeights(i int, w *equity.Weights) error {
	if len(w.RowFilled) != r.cfg.GridWidth+1 ||
		len(w.HoleHeight) != equity.HoleHeightCap ||
		len(w.ColumnDiff) != equity.ColumnDiffCap {
		return fmt.Errorf("weight vector sized %d/%d/%d does not fit a width-%d grid",
			len(w.RowFilled), len(w.HoleHeight), len(w.ColumnDiff), r.cfg.GridWidth)
	}
	r.instances[i].calc = equity.NewHeuristicCalculator(w.Clone(), r.cfg.GridWidth)
	return nil
}

// AllTerminal reports whether every instance has reached its terminal
// state.
func (r *PopulationRunner) AllTerminal() bool {
	for _, inst := range r.instances {
		if !inst.game.Over() {
			return false
		}
	}
	return true
}

// Tick commits one piece placement on every live instance. Updates fan
// out across worker threads; instances own their state exclusively and
// the geometry table is immutable, so no locking is needed.
func (r *PopulationRunner) Tick() {
	g := errgroup.Group{}
	g.SetLimit(r.cfg.Threads)
	for _, inst := range r.instances {
		if inst.game.Over() {
			continue
		}
		inst := inst
		g.Go(func() error {
			inst.playBestPlacement()
			return nil
		})
	}
	// Workers never return errors; Wait is the per-tick barrier.
	g.Wait() //nolint:errcheck
}

// playBestPlacement enumerates the drop placements of the current
// piece, scores each on a working copy of the grid, and commits the
// highest scoring one (ties: first max wins). No legal placement means
// an immediate loss, same as a spawn collision.
func (inst *instance) playBestPlacement() {
	g := inst.game
	placements := inst.gen.GenAll(g.Grid(), g.CurrentPiece().ID)
	if len(placements) == 0 {
		g.SetGameOver()
		return
	}
	inst.scratch.CopyFrom(g.Grid())
	best := placements[0]
	bestScore := math.Inf(-1)
	for _, p := range placements {
		v := inst.set.Variant(g.CurrentPiece().ID, p.Rotation)
		inst.scratch.Place(v, p.X, p.Y)
		score := inst.calc.Score(inst.scratch)
		inst.scratch.Remove(v, p.X, p.Y)
		if score > bestScore {
			bestScore = score
			best = p
		}
	}
	g.PlayPlacement(best.Rotation, best.X, best.Y)
}

// RunGeneration plays the current generation to the all-terminal
// barrier, then performs one evolution step. The context only bounds
// the tick loop; a generation in a degenerate population still
// terminates because every instance tops out.
func (r *PopulationRunner) RunGeneration(ctx context.Context) (*GenerationResult, error) {
	for !r.AllTerminal() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.Tick()
	}
	res := r.nextGeneration()
	return res, nil
}

// RunGenerations runs n full generations.
func (r *PopulationRunner) RunGenerations(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		res, err := r.RunGeneration(ctx)
		if err != nil {
			return fmt.Errorf("generation %d: %w", r.generation, err)
		}
		log.Info().Int("generation", res.Generation).
			Int("best", res.Fitnesses[0]).
			Float64("mean", res.Mean).
			Float64("top-mean", res.TopMean).
			Msg("generation-complete")
	}
	return nil
}
