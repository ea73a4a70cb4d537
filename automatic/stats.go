package automatic

import (
	"fmt"
	"io"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// WriteSummary prints a human-readable digest of the generation:
// mean/stddev over the whole population and over the selection bracket,
// plus a terminal histogram of the fitness distribution.
func (res *GenerationResult) WriteSummary(w io.Writer) error {
	asFloats := lo.Map(res.Fitnesses, func(f int, _ int) float64 { return float64(f) })
	mean, std := stat.MeanStdDev(asFloats, nil)
	fmt.Fprintf(w, "generation %d: best %d, mean %.2f, stddev %.2f, top-mean %.2f\n",
		res.Generation, res.Fitnesses[0], mean, std, res.TopMean)
	fmt.Fprintf(w, "lines cleared: %s\n", strings.Join(
		lo.Map(res.Fitnesses, func(f int, _ int) string { return fmt.Sprintf("%d", f) }), " "))

	if res.Fitnesses[0] == res.Fitnesses[len(res.Fitnesses)-1] {
		// histogram.Hist divides by the value range.
		return nil
	}
	hist := histogram.Hist(9, asFloats)
	return histogram.Fprint(w, hist, histogram.Linear(40))
}
