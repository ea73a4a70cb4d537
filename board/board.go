// Package board implements the playfield grid: occupancy state,
// collision testing, piece locking and line clears. A cell holds 0 when
// empty, or the id of the shape that filled it (the rendering
// collaborator maps ids back to colors). The grid is indexed
// column-first, (x, y), with y = 0 at the top.
package board

import (
	"github.com/domino14/tetro/tetromino"
)

// Grid is one board's occupancy state.
type Grid struct {
	width  int
	height int
	cells  []uint8
}

// NewGrid creates an empty width x height grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]uint8, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// At returns the shape id occupying (x, y), or 0 if the cell is empty.
func (g *Grid) At(x, y int) uint8 {
	return g.cells[x*g.height+y]
}

func (g *Grid) set(x, y int, v uint8) {
	g.cells[x*g.height+y] = v
}

// Copy returns an independent copy of the grid.
func (g *Grid) Copy() *Grid {
	cp := &Grid{width: g.width, height: g.height, cells: make([]uint8, len(g.cells))}
	copy(cp.cells, g.cells)
	return cp
}

// CopyFrom overwrites this grid's cells with o's. The grids must share
// dimensions.
func (g *Grid) CopyFrom(o *Grid) {
	copy(g.cells, o.cells)
}

// Clear empties every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = 0
	}
}

// Collides reports whether the variant's mask, anchored at (x, y),
// either exits the board bounds or overlaps an occupied cell.
func (g *Grid) Collides(v *tetromino.ShapeVariant, x, y int) bool {
	for mx := 0; mx < v.Size; mx++ {
		for my := 0; my < v.Size; my++ {
			if !v.Mask[mx][my] {
				continue
			}
			gx := mx + x
			gy := my + y
			if gx < 0 || gy < 0 || gx >= g.width || gy >= g.height ||
				g.At(gx, gy) != 0 {
				return true
			}
		}
	}
	return false
}

// Place writes the variant's occupied cells into the grid at (x, y).
// Cells that fall outside the board are silently dropped; that only
// happens on the spawn rows during intentional overhang.
func (g *Grid) Place(v *tetromino.ShapeVariant, x, y int) {
	g.stamp(v, x, y, uint8(v.ID))
}

// Remove zeroes the variant's occupied cells at (x, y). Used to revert
// a hypothetical placement after scoring.
func (g *Grid) Remove(v *tetromino.ShapeVariant, x, y int) {
	g.stamp(v, x, y, 0)
}

func (g *Grid) stamp(v *tetromino.ShapeVariant, x, y int, val uint8) {
	for mx := 0; mx < v.Size; mx++ {
		for my := 0; my < v.Size; my++ {
			if !v.Mask[mx][my] {
				continue
			}
			gx := mx + x
			gy := my + y
			if gx < 0 || gx >= g.width || gy < 0 || gy >= g.height {
				continue
			}
			g.set(gx, gy, val)
		}
	}
}

// ClearLines scans the rows within the vertical span of a just-locked
// variant, bottom to top. Every fully occupied row is removed, all rows
// above shift down one, and the top row is zeroed. Returns the number
// of rows cleared.
func (g *Grid) ClearLines(v *tetromino.ShapeVariant, y int) int {
	cleared := 0
	row := y + v.Size - 1
	for i := 0; i < v.Size; i++ {
		if row >= g.height {
			row--
			continue
		}
		if row < 0 {
			break
		}
		if !g.rowFull(row) {
			row--
			continue
		}
		cleared++
		for yy := row; yy > 0; yy-- {
			for x := 0; x < g.width; x++ {
				g.set(x, yy, g.At(x, yy-1))
			}
		}
		for x := 0; x < g.width; x++ {
			g.set(x, 0, 0)
		}
		// The shifted-down row at this index still needs checking, so
		// do not advance.
	}
	return cleared
}

func (g *Grid) rowFull(y int) bool {
	for x := 0; x < g.width; x++ {
		if g.At(x, y) == 0 {
			return false
		}
	}
	return true
}

// RowFillCount returns how many cells in row y are occupied.
func (g *Grid) RowFillCount(y int) int {
	n := 0
	for x := 0; x < g.width; x++ {
		if g.At(x, y) != 0 {
			n++
		}
	}
	return n
}

// Heightmap fills dst (length Width) with each column's height: the
// distance from the board's bottom to its topmost occupied cell, 0 for
// an empty column.
func (g *Grid) Heightmap(dst []int) {
	for x := 0; x < g.width; x++ {
		dst[x] = 0
		for y := 0; y < g.height; y++ {
			if g.At(x, y) != 0 {
				dst[x] = g.height - y
				break
			}
		}
	}
}
