package weightstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/tetro/equity"
)

func sampleWeights() *equity.Weights {
	return &equity.Weights{
		RowFilled:  []float64{0.1, 0.2, 0.3, 0.4, 0.5},
		HoleHeight: []float64{1, 2, 3, 4, 5},
		ColumnDiff: []float64{0.5, 1.5, 2.5, 3.5, 4.5},
	}
}

func TestSnapshotRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	w := sampleWeights()
	require.NoError(t, SaveWeights(w, path))
	loaded, err := LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, w, loaded)
}

func TestLoadWeightsRejectsIncompleteSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("row_filled: [1, 2]\n"), 0644))
	_, err := LoadWeights(path)
	assert.Error(t, err)
}

func TestStoreRecordsAndRanks(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "training.db"))
	require.NoError(t, err)
	defer store.Close()

	w := sampleWeights()
	require.NoError(t, store.RecordGeneration(0, 3, 1.5, w))
	require.NoError(t, store.RecordGeneration(1, 12, 6.0, w))
	require.NoError(t, store.RecordGeneration(2, 7, 4.0, w))

	recs, err := store.Best(2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 12, recs[0].BestLines)
	assert.Equal(t, 1, recs[0].Generation)
	assert.Equal(t, 7, recs[1].BestLines)
	assert.Equal(t, w, recs[0].Weights)
	assert.NotEmpty(t, recs[0].CreatedAt)
}
