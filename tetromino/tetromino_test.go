package tetromino

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

// maskFromRows builds a column-major mask from visual row strings.
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

func defSquare() ShapeDefinition {
	return ShapeDefinition{Mask: maskFromRows([]string{"OO", "OO"}), Color: "240,240,0"}
}

func defLine() ShapeDefinition {
	return ShapeDefinition{
		Mask:  maskFromRows([]string{"....", "OOOO", "....", "...."}),
		Color: "0,240,240",
	}
}

func defAsym() ShapeDefinition {
	return ShapeDefinition{Mask: maskFromRows([]string{"OO.", "O..", "..."}), Color: "1,2,3"}
}

func TestRotationCycle(t *testing.T) {
	is := is.New(t)
	orig := maskFromRows([]string{"OO.", "O..", "..."})
	mask := copyMask(orig)
	for i := 0; i < 4; i++ {
		mask = rotateMask(mask)
	}
	is.Equal(mask, orig) // four clockwise rotations reproduce the mask
}

func TestRotationClasses(t *testing.T) {
	is := is.New(t)
	set, err := NewSet([]ShapeDefinition{defSquare(), defLine(), defAsym()}, 10, 20)
	is.NoErr(err)
	is.Equal(len(set.RotationClass(1)), 1) // fully symmetric square
	is.Equal(len(set.RotationClass(2)), 2) // line: horizontal and vertical
	is.Equal(len(set.RotationClass(3)), 4) // no rotational symmetry
}

func TestPlacementEnvelope(t *testing.T) {
	is := is.New(t)
	set, err := NewSet([]ShapeDefinition{defLine()}, 10, 20)
	is.NoErr(err)
	v := set.Variant(1, 0)
	// The horizontal line occupies mask row 1, columns 0-3.
	is.Equal(v.MinX, 0)
	is.Equal(v.MaxX, 6)
	is.Equal(v.MinY, -1)
	is.Equal(v.MaxY, 18)
}

func TestVariantLookupStable(t *testing.T) {
	is := is.New(t)
	set, err := NewSet([]ShapeDefinition{defSquare()}, 10, 20)
	is.NoErr(err)
	is.Equal(set.Variant(1, 5), set.Variant(1, 1))    // rotation is mod 4
	is.True(set.Variant(1, 2) == set.Variant(1, 2))   // same reference every lookup
	is.True(set.Variant(1, -1) == set.Variant(1, 3))  // negative rotations wrap
}

func TestMalformedDefinitions(t *testing.T) {
	is := is.New(t)
	cases := []ShapeDefinition{
		{Mask: nil, Color: "1,2,3"},
		{Mask: [][]bool{{true, false}, {true}}, Color: "1,2,3"},
		{Mask: maskFromRows([]string{"OO", "OO"}), Color: "red"},
		{Mask: maskFromRows([]string{"OO", "OO"}), Color: "1,2"},
		{Mask: maskFromRows([]string{"OO", "OO"}), Color: "1,2,999"},
	}
	for _, def := range cases {
		_, err := NewSet([]ShapeDefinition{def}, 10, 20)
		is.True(errors.Is(err, ErrMalformedShapeDefinition))
	}
	_, err := NewSet(nil, 10, 20)
	is.True(errors.Is(err, ErrMalformedShapeDefinition))
}

func TestSpawnCentered(t *testing.T) {
	is := is.New(t)
	set, err := NewSet([]ShapeDefinition{defSquare()}, 10, 20)
	is.NoErr(err)
	p := Spawn(set, 1)
	// Square envelope on a width-10 grid is [0, 8].
	is.Equal(p.X, 4)
	is.Equal(p.Y, 0)
	is.Equal(p.Rotation, 0)
}
