package movegen

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tetro/board"
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

func TestSquareOnEmptyBoard(t *testing.T) {
	is := is.New(t)
	set, err := tetromino.NewSet([]tetromino.ShapeDefinition{
		{Mask: maskFromRows([]string{"OO", "OO"}), Color: "240,240,0"},
	}, 4, 4)
	is.NoErr(err)

	gen := NewGenerator(set)
	placements := gen.GenAll(board.NewGrid(4, 4), 1)
	// One rotation, three columns, all flush on the floor.
	is.Equal(placements, []Placement{
		{Rotation: 0, X: 0, Y: 2},
		{Rotation: 0, X: 1, Y: 2},
		{Rotation: 0, X: 2, Y: 2},
	})
}

func TestRedundantRotationsSkipped(t *testing.T) {
	is := is.New(t)
	set, err := tetromino.NewSet([]tetromino.ShapeDefinition{
		{Mask: maskFromRows([]string{"....", "OOOO", "....", "...."}), Color: "0,240,240"},
	}, 10, 20)
	is.NoErr(err)

	gen := NewGenerator(set)
	placements := gen.GenAll(board.NewGrid(10, 20), 1)
	// 7 horizontal anchors + 10 vertical anchors; rotations 2 and 3
	// duplicate 0 and 1 and are pruned.
	is.Equal(len(placements), 17)
	for _, p := range placements {
		is.True(p.Rotation == 0 || p.Rotation == 1)
	}
}

func TestOverhangExcludesBlockedColumns(t *testing.T) {
	is := is.New(t)
	set, err := tetromino.NewSet([]tetromino.ShapeDefinition{
		{Mask: maskFromRows([]string{"OO", "OO"}), Color: "240,240,0"},
		{Mask: maskFromRows([]string{"O"}), Color: "9,9,9"},
	}, 4, 4)
	is.NoErr(err)

	g := board.NewGrid(4, 4)
	// A ledge across columns 0-1 at row 1: the cavity beneath it is
	// unreachable by a straight drop.
	cell := set.Variant(2, 0)
	g.Place(cell, 0, 1)
	g.Place(cell, 1, 1)

	gen := NewGenerator(set)
	placements := gen.GenAll(g, 1)
	is.Equal(placements, []Placement{{Rotation: 0, X: 2, Y: 2}})
}

func TestPlacementsNeverCollide(t *testing.T) {
	is := is.New(t)
	set, err := tetromino.NewSet([]tetromino.ShapeDefinition{
		{Mask: maskFromRows([]string{".O.", "OOO", "..."}), Color: "160,0,240"},
		{Mask: maskFromRows([]string{"....", "OOOO", "....", "...."}), Color: "0,240,240"},
		{Mask: maskFromRows([]string{"O"}), Color: "9,9,9"},
	}, 8, 10)
	is.NoErr(err)

	// A jagged stack.
	g := board.NewGrid(8, 10)
	cell := set.Variant(3, 0)
	for _, c := range [][2]int{{0, 9}, {1, 9}, {1, 8}, {3, 9}, {4, 6}, {4, 7}, {4, 8}, {4, 9}, {6, 9}} {
		g.Place(cell, c[0], c[1])
	}

	gen := NewGenerator(set)
	for shape := 1; shape <= 2; shape++ {
		for _, p := range gen.GenAll(g, shape) {
			v := set.Variant(shape, p.Rotation)
			is.True(!g.Collides(v, p.X, p.Y))             // rests inside the board, overlap free
			is.True(g.Collides(v, p.X, p.Y+1) || p.Y == v.MaxY) // and cannot fall further
		}
	}
}

func TestFullColumnsYieldNoPlacements(t *testing.T) {
	is := is.New(t)
	set, err := tetromino.NewSet([]tetromino.ShapeDefinition{
		{Mask: maskFromRows([]string{"OO", "OO"}), Color: "240,240,0"},
		{Mask: maskFromRows([]string{"O"}), Color: "9,9,9"},
	}, 4, 4)
	is.NoErr(err)

	g := board.NewGrid(4, 4)
	cell := set.Variant(2, 0)
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			if x != 3 {
				g.Place(cell, x, y)
			}
		}
	}
	gen := NewGenerator(set)
	// Only one open column remains; the square needs two.
	is.Equal(len(gen.GenAll(g, 1)), 0)
}
