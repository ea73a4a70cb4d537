// Package equity assigns a heuristic value to board configurations.
// An agent's behavior is fully described by its three weight sequences;
// the calculator combines them over the row-fill, trapped-hole and
// column-height features of a grid.
package equity

import (
	"math"
	"math/rand"
)

const (
	// HoleHeightCap is the number of hole-height weights; deeper runs
	// clip to the last weight.
	HoleHeightCap = 5
	// ColumnDiffCap is the number of column-difference weights; larger
	// differences clip to the last weight.
	ColumnDiffCap = 5
)

// Weights is one agent's weight vector. RowFilled has gridWidth+1
// entries indexed by the count of filled cells in a row; HoleHeight has
// HoleHeightCap entries indexed by clipped trapped-run depth;
// ColumnDiff has ColumnDiffCap entries indexed by the clipped absolute
// height difference of adjacent columns. A Weights value is owned by
// exactly one population member; Clone and Crossover always produce
// independent sequences.
type Weights struct {
	RowFilled  []float64 `yaml:"row_filled"`
	HoleHeight []float64 `yaml:"hole_height"`
	ColumnDiff []float64 `yaml:"column_diff"`
}

// RandomWeights samples a fresh weight vector for the given grid width.
func RandomWeights(gridWidth int, r *rand.Rand) *Weights {
	w := &Weights{
		RowFilled:  make([]float64, gridWidth+1),
		HoleHeight: make([]float64, HoleHeightCap),
		ColumnDiff: make([]float64, ColumnDiffCap),
	}
	fillRandom(w.RowFilled, r)
	fillRandom(w.HoleHeight, r)
	fillRandom(w.ColumnDiff, r)
	return w
}

func fillRandom(dst []float64, r *rand.Rand) {
	for i := range dst {
		dst[i] = randomWeight(r)
	}
}

// randomWeight draws from the positive half of a standard normal
// distribution via the Box-Muller transform. All three weight families
// enter the score with a fixed sign, so small positive magnitudes are
// the useful starting region.
func randomWeight(r *rand.Rand) float64 {
	u := 1 - r.Float64() // (0, 1]: keeps the log finite
	v := r.Float64()
	return math.Abs(math.Sqrt(-2*math.Log(u)) * math.Cos(2*math.Pi*v))
}

// Clone returns a deep copy.
func (w *Weights) Clone() *Weights {
	return &Weights{
		RowFilled:  append([]float64(nil), w.RowFilled...),
		HoleHeight: append([]float64(nil), w.HoleHeight...),
		ColumnDiff: append([]float64(nil), w.ColumnDiff...),
	}
}

// Crossover produces a child vector: each of the three sequences
// independently takes a random split point and copies this parent's
// values before it and the other parent's values from it on. Values are
// copied verbatim, never blended.
func (w *Weights) Crossover(other *Weights, r *rand.Rand) *Weights {
	return &Weights{
		RowFilled:  crossSequence(w.RowFilled, other.RowFilled, r),
		HoleHeight: crossSequence(w.HoleHeight, other.HoleHeight, r),
		ColumnDiff: crossSequence(w.ColumnDiff, other.ColumnDiff, r),
	}
}

func crossSequence(a, b []float64, r *rand.Rand) []float64 {
	split := r.Intn(len(a) + 1)
	child := make([]float64, len(a))
	copy(child[:split], a[:split])
	copy(child[split:], b[split:])
	return child
}

// Mutate independently replaces each weight, with the given
// probability, by a freshly sampled value.
func (w *Weights) Mutate(rate float64, r *rand.Rand) {
	mutateSequence(w.RowFilled, rate, r)
	mutateSequence(w.HoleHeight, rate, r)
	mutateSequence(w.ColumnDiff, rate, r)
}

func mutateSequence(dst []float64, rate float64, r *rand.Rand) {
	for i := range dst {
		if r.Float64() < rate {
			dst[i] = randomWeight(r)
		}
	}
}
