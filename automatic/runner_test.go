package automatic

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tetro/config"
	"github.com/domino14/tetro/equity"
	"github.com/domino14/tetro/tetromino"
)

func maskFromRows(rows []string) [][]bool {
	size := len(rows)
	mask := make([][]bool, size)
	for x := 0; x < size; x++ {
		mask[x] = make([]bool, size)
		for y := 0; y < size; y++ {
			mask[x][y] = rows[y][x] == 'O'
		}
	}
	return mask
}

// squareOnlySet: a lone 2x2 square on an odd-width grid can never
// complete a row, so every game tops out within a bounded number of
// placements.
func squareOnlySet(t *testing.T, w, h int) *tetromino.Set {
	t.Helper()
	set, err := tetromino.NewSet([]tetromino.ShapeDefinition{
		{Mask: maskFromRows([]string{"OO", "OO"}), Color: "240,240,0"},
	}, w, h)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func testConfig() *config.Config {
	return &config.Config{
		GridWidth:      5,
		GridHeight:     8,
		PopulationSize: 6,
		SelectionSize:  3,
		MutateRate:     0.1,
		Threads:        2,
	}
}

func fixedWeights(gridWidth int, v float64) *equity.Weights {
	w := &equity.Weights{
		RowFilled:  make([]float64, gridWidth+1),
		HoleHeight: make([]float64, equity.HoleHeightCap),
		ColumnDiff: make([]float64, equity.ColumnDiffCap),
	}
	for _, seq := range [][]float64{w.RowFilled, w.HoleHeight, w.ColumnDiff} {
		for i := range seq {
			seq[i] = v
		}
	}
	return w
}

func TestNewPopulationRunnerValidates(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	cfg.PopulationSize = 1
	_, err := NewPopulationRunner(cfg, squareOnlySet(t, 5, 8), 1, nil)
	is.True(errors.Is(err, config.ErrInvalidConfig))
}

func TestDeriveNextWeightsElitism(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	cfg.PopulationSize = 10
	cfg.SelectionSize = 4
	cfg.MutateRate = 0 // children must be pure crossover products
	r, err := NewPopulationRunner(cfg, squareOnlySet(t, 5, 8), 17, nil)
	is.NoErr(err)

	ranked := make([]*equity.Weights, 10)
	for i := range ranked {
		ranked[i] = fixedWeights(5, float64(i+1))
	}
	next := r.deriveNextWeights(ranked, 5.0)
	is.Equal(len(next), 10)

	// Top half survives as clones, in rank order.
	for i := 0; i < 5; i++ {
		is.Equal(next[i].RowFilled[0], float64(i+1))
	}
	next[0].RowFilled[0] = -1
	is.Equal(ranked[0].RowFilled[0], 1.0) // clone, not an alias

	// The rest are bred only from the top selection bracket.
	for i := 5; i < 10; i++ {
		for _, seq := range [][]float64{next[i].RowFilled, next[i].HoleHeight, next[i].ColumnDiff} {
			for _, v := range seq {
				is.True(v >= 1 && v <= 4)
			}
		}
	}
}

func TestDeriveNextWeightsReseedsDegeneratePopulation(t *testing.T) {
	is := is.New(t)
	r, err := NewPopulationRunner(testConfig(), squareOnlySet(t, 5, 8), 17, nil)
	is.NoErr(err)

	ranked := make([]*equity.Weights, 6)
	for i := range ranked {
		ranked[i] = fixedWeights(5, -5) // sampled weights are never negative
	}
	next := r.deriveNextWeights(ranked, reseedFloor)
	is.Equal(len(next), 6)
	for _, w := range next {
		for _, seq := range [][]float64{w.RowFilled, w.HoleHeight, w.ColumnDiff} {
			for _, v := range seq {
				is.True(v >= 0)
			}
		}
	}
}

func TestRunGenerationPlaysToTerminal(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	r, err := NewPopulationRunner(cfg, squareOnlySet(t, 5, 8), 99, nil)
	is.NoErr(err)

	res, err := r.RunGeneration(context.Background())
	is.NoErr(err)
	is.Equal(res.Generation, 0)
	is.Equal(len(res.Fitnesses), cfg.PopulationSize)
	for i := 1; i < len(res.Fitnesses); i++ {
		is.True(res.Fitnesses[i-1] >= res.Fitnesses[i])
	}
	is.Equal(r.Generation(), 1)
	is.Equal(r.LastResult(), res)
	// The fresh population's boards are live again.
	is.True(!r.AllTerminal())
}

func TestRunGenerationHonorsContext(t *testing.T) {
	is := is.New(t)
	r, err := NewPopulationRunner(testConfig(), squareOnlySet(t, 5, 8), 99, nil)
	is.NoErr(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.RunGeneration(ctx)
	is.True(errors.Is(err, context.Canceled))
}

func TestSameSeedSameRun(t *testing.T) {
	is := is.New(t)
	set := squareOnlySet(t, 5, 8)
	a, err := NewPopulationRunner(testConfig(), set, 12345, nil)
	is.NoErr(err)
	b, err := NewPopulationRunner(testConfig(), set, 12345, nil)
	is.NoErr(err)

	resA, err := a.RunGeneration(context.Background())
	is.NoErr(err)
	resB, err := b.RunGeneration(context.Background())
	is.NoErr(err)

	is.Equal(resA.Fitnesses, resB.Fitnesses)
	is.Equal(resA.BestWeights, resB.BestWeights)
	for i := 0; i < a.NumInstances(); i++ {
		is.Equal(a.Weights(i), b.Weights(i))
	}
}

func TestSetWeightsRejectsWrongShape(t *testing.T) {
	is := is.New(t)
	r, err := NewPopulationRunner(testConfig(), squareOnlySet(t, 5, 8), 1, nil)
	is.NoErr(err)

	is.True(r.SetWeights(0, fixedWeights(7, 1)) != nil) // wrong grid width
	is.NoErr(r.SetWeights(0, fixedWeights(5, 1)))
	is.Equal(r.Weights(0).RowFilled[0], 1.0)
}

func TestResultsFlowToLogChannel(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 4)
	r, err := NewPopulationRunner(testConfig(), squareOnlySet(t, 5, 8), 7, logchan)
	is.NoErr(err)

	_, err = r.RunGeneration(context.Background())
	is.NoErr(err)
	line := <-logchan
	is.Equal(line[:2], "0,") // generation leads the CSV record
}
