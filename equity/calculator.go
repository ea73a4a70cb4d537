package equity

import (
	"math/rand"

	"github.com/domino14/tetro/board"
)

// Calculator is a scorer of hypothetical board configurations; higher
// is better.
type Calculator interface {
	Score(g *board.Grid) float64
}

// HeuristicCalculator scores a grid with one agent's weight vector. It
// never mutates the grid. A calculator holds scratch state and must not
// be shared between concurrently ticking instances.
type HeuristicCalculator struct {
	weights *Weights
	heights []int
}

// NewHeuristicCalculator wraps a weight vector in a calculator for
// grids of the given width.
func NewHeuristicCalculator(weights *Weights, gridWidth int) *HeuristicCalculator {
	return &HeuristicCalculator{
		weights: weights,
		heights: make([]int, gridWidth),
	}
}

// Weights returns the wrapped weight vector.
func (c *HeuristicCalculator) Weights() *Weights { return c.weights }

// Score computes
//
//	sum over rows of rowFilled[filled cells]
//	- sum over trapped empty runs of holeHeight[clipped run depth]
//	- sum over adjacent columns of columnDiff[clipped height difference]
//
// Empty cells above a column's topmost filled cell are not holes.
func (c *HeuristicCalculator) Score(g *board.Grid) float64 {
	score := 0.0
	for y := 0; y < g.Height(); y++ {
		score += c.weights.RowFilled[g.RowFillCount(y)]
	}
	g.Heightmap(c.heights)
	score -= c.holePenalty(g)
	score -= c.columnDiffPenalty()
	return score
}

// holePenalty walks each column from its topmost filled cell down,
// charging every maximal run of trapped empty cells. Run depths clip
// uniformly as min(depth, HoleHeightCap) - 1.
func (c *HeuristicCalculator) holePenalty(g *board.Grid) float64 {
	penalty := 0.0
	for x := 0; x < g.Width(); x++ {
		run := 0
		for y := g.Height() - c.heights[x]; y < g.Height(); y++ {
			if g.At(x, y) != 0 {
				if run > 0 {
					penalty += c.weights.HoleHeight[clip(run, HoleHeightCap)-1]
					run = 0
				}
			} else {
				run++
			}
		}
		if run > 0 {
			penalty += c.weights.HoleHeight[clip(run, HoleHeightCap)-1]
		}
	}
	return penalty
}

func (c *HeuristicCalculator) columnDiffPenalty() float64 {
	penalty := 0.0
	for i := 1; i < len(c.heights); i++ {
		diff := c.heights[i] - c.heights[i-1]
		if diff < 0 {
			diff = -diff
		}
		penalty += c.weights.ColumnDiff[clip(diff, ColumnDiffCap-1)]
	}
	return penalty
}

func clip(v, cap int) int {
	if v > cap {
		return cap
	}
	return v
}

// RandomCalculator samples a fresh weight vector and wraps it.
func RandomCalculator(gridWidth int, r *rand.Rand) *HeuristicCalculator {
	return NewHeuristicCalculator(RandomWeights(gridWidth, r), gridWidth)
}
