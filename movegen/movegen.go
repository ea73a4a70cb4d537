// Package movegen enumerates every legal resting placement of a piece
// that is reachable by a pure vertical drop. It skips geometrically
// redundant rotations and uses a column heightmap to start each
// vertical scan near the stack instead of probing every row from the
// top.
package movegen

import (
	"github.com/domino14/tetro/board"
	"github.com/domino14/tetro/tetromino"
)

// Placement is one candidate resting position for a piece.
type Placement struct {
	Rotation int
	X        int
	Y        int
}

// Generator generates placements for one grid at a time. It owns its
// scratch buffers, so a single generator must not be shared across
// concurrently updated instances.
type Generator struct {
	set        *tetromino.Set
	heights    []int
	placements []Placement
}

// NewGenerator creates a generator for boards sized by the geometry
// table's nominal grid.
func NewGenerator(set *tetromino.Set) *Generator {
	return &Generator{
		set:     set,
		heights: make([]int, set.GridWidth()),
	}
}

// GenAll computes every distinct legal drop placement of the shape on
// the grid, one rotation per rotation class, and returns them. An empty
// result is a normal outcome meaning the piece cannot land anywhere.
// The returned slice is reused by the next GenAll call.
func (gen *Generator) GenAll(g *board.Grid, shapeID int) []Placement {
	gen.placements = gen.placements[:0]
	g.Heightmap(gen.heights)

	for _, rot := range gen.set.RotationClass(shapeID) {
		v := gen.set.Variant(shapeID, rot)
		for x := v.MinX; x <= v.MaxX; x++ {
			gen.genForColumn(g, v, rot, x)
		}
	}
	return gen.placements
}

// genForColumn finds the resting row, if any, for the variant dropped
// straight down at horizontal anchor x.
func (gen *Generator) genForColumn(g *board.Grid, v *tetromino.ShapeVariant, rot, x int) {
	// The piece cannot first touch the stack above the tallest column
	// it spans, so begin the descent just above that height.
	greatest := 0
	for col := x; col < x+v.Size; col++ {
		if col < 0 || col >= g.Width() {
			continue
		}
		if gen.heights[col] > greatest {
			greatest = gen.heights[col]
		}
	}
	start := g.Height() - greatest - v.Size
	if start < v.MinY {
		start = v.MinY
	}

	y := start
	for j := start; j <= v.MaxY; j++ {
		if g.Collides(v, x, j) {
			y = j - 1
			break
		}
		y = j
	}
	// If even the starting offset collides (a taller obstruction hides
	// below the heightmap's reach), there is no placement at this x.
	if !g.Collides(v, x, y) {
		gen.placements = append(gen.placements, Placement{Rotation: rot, X: x, Y: y})
	}
}
