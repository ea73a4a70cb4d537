package automatic

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/domino14/tetro/equity"
)

// nextGeneration ranks the finished population, derives the next
// generation's weight vectors (elitist clones + crossover/mutation, or
// a full reseed for a degenerate population), and resets every board.
func (r *PopulationRunner) nextGeneration() *GenerationResult {
	popSize := len(r.instances)
	selSize := r.cfg.SelectionSize

	ranked := make([]int, popSize)
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return r.instances[ranked[a]].game.LinesCleared() >
			r.instances[ranked[b]].game.LinesCleared()
	})

	fitnesses := lo.Map(ranked, func(idx int, _ int) int {
		return r.instances[idx].game.LinesCleared()
	})
	asFloats := lo.Map(fitnesses, func(f int, _ int) float64 { return float64(f) })

	res := &GenerationResult{
		Generation:  r.generation,
		Fitnesses:   fitnesses,
		BestWeights: r.instances[ranked[0]].calc.Weights().Clone(),
		Mean:        stat.Mean(asFloats, nil),
		TopMean:     stat.Mean(asFloats[:selSize], nil),
	}
	r.lastResult = res
	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%d,%d,%.3f,%.3f\n",
			res.Generation, res.Fitnesses[0], res.Mean, res.TopMean)
	}

	rankedWeights := lo.Map(ranked, func(idx int, _ int) *equity.Weights {
		return r.instances[idx].calc.Weights()
	})
	r.resetPopulation(r.deriveNextWeights(rankedWeights, res.TopMean))
	r.generation++
	return res
}

// deriveNextWeights produces the next generation's weight vectors from
// this generation's, ordered best-first. The top half survives as
// independent clones; the rest come from crossover plus mutation over
// the top selection bracket. A degenerate population (top-bracket mean
// fitness at or below the floor) is reseeded wholesale.
func (r *PopulationRunner) deriveNextWeights(rankedWeights []*equity.Weights,
	topMean float64) []*equity.Weights {

	popSize := len(rankedWeights)
	selSize := r.cfg.SelectionSize

	if topMean <= reseedFloor {
		// Crossover over an all-zero top bracket only copies noise
		// around, so rebuild from scratch.
		log.Info().Int("generation", r.generation).
			Float64("top-mean", topMean).
			Msg("population-degenerate-reseeding")
		next := make([]*equity.Weights, popSize)
		for i := range next {
			next[i] = equity.RandomWeights(r.cfg.GridWidth, r.evolveRand)
		}
		return next
	}

	next := make([]*equity.Weights, 0, popSize)
	for i := 0; i < popSize/2; i++ {
		next = append(next, rankedWeights[i].Clone())
	}
	for len(next) < popSize {
		i1 := r.evolveRand.Intn(selSize)
		i2 := i1
		for i2 == i1 {
			i2 = r.evolveRand.Intn(selSize)
		}
		child := rankedWeights[i1].Crossover(rankedWeights[i2], r.evolveRand)
		child.Mutate(r.cfg.MutateRate, r.evolveRand)
		next = append(next, child)
	}
	return next
}
