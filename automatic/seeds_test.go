package automatic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestSeedsRoundtrip(t *testing.T) {
	is := is.New(t)
	seeds := GenerateSeeds(5)
	is.Equal(len(seeds), 5)
	for _, s := range seeds {
		is.True(s >= 0)
	}

	path := filepath.Join(t.TempDir(), "seeds.txt")
	is.NoErr(SaveSeeds(seeds, path))
	loaded, err := LoadSeeds(path)
	is.NoErr(err)
	is.Equal(loaded, seeds)
}

func TestLoadSeedsSkipsCommentsAndBlanks(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "seeds.txt")
	is.NoErr(SaveSeeds([]int64{42}, path))
	loaded, err := LoadSeeds(path)
	is.NoErr(err)
	is.Equal(loaded, []int64{42})
}

func TestLoadSeedsRejectsGarbage(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "seeds.txt")
	is.NoErr(os.WriteFile(path, []byte("not base64!!\n"), 0644))
	_, err := LoadSeeds(path)
	is.True(err != nil)
}
