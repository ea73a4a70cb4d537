// Package weightstore persists weight vectors: YAML snapshot files for
// seeding and sharing agents, and a sqlite training log recording the
// best weights of every finished generation.
package weightstore

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/domino14/tetro/equity"
)

// SaveWeights writes a weight vector to a YAML snapshot file.
func SaveWeights(w *equity.Weights, path string) error {
	out, err := yaml.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshaling weights: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing weights file: %w", err)
	}
	return nil
}

// LoadWeights reads a YAML snapshot back into a weight vector.
func LoadWeights(path string) (*equity.Weights, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading weights file: %w", err)
	}
	w := &equity.Weights{}
	if err := yaml.Unmarshal(raw, w); err != nil {
		return nil, fmt.Errorf("parsing weights file: %w", err)
	}
	if len(w.RowFilled) == 0 || len(w.HoleHeight) == 0 || len(w.ColumnDiff) == 0 {
		return nil, fmt.Errorf("weights file %s is missing one of the three sequences", path)
	}
	return w, nil
}
