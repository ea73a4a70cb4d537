// Package game owns one Tetris instance: a grid, the falling and next
// pieces, the cycling shape bag and the lines-cleared tally. Every
// movement command is atomic: it either succeeds or is reverted, so no
// partial state is ever observable. Each instance exclusively owns its
// state; instances never share grids or pieces.
package game

import (
	"math/rand"

	"github.com/domino14/tetro/board"
	"github.com/domino14/tetro/tetromino"
)

// Game is a single Tetris instance.
type Game struct {
	set        *tetromino.Set
	grid       *board.Grid
	current    *tetromino.Piece
	next       *tetromino.Piece
	bag        []int
	randSource *rand.Rand

	linesCleared int
	over         bool
}

// NewGame creates a fresh instance with an empty grid. The rand source
// drives the shape bag; pass a seeded source for reproducible piece
// sequences.
func NewGame(set *tetromino.Set, randSource *rand.Rand) *Game {
	g := &Game{
		set:        set,
		grid:       board.NewGrid(set.GridWidth(), set.GridHeight()),
		randSource: randSource,
	}
	g.current = g.drawPiece()
	g.next = g.drawPiece()
	return g
}

// drawPiece pulls the next shape from the bag, refilling it with a
// fresh shuffled permutation of every shape id whenever it runs out.
// The bag guarantees a fair distribution: every shape appears once per
// cycle.
func (g *Game) drawPiece() *tetromino.Piece {
	if len(g.bag) == 0 {
		n := g.set.NumShapes()
		g.bag = make([]int, n)
		for i, idx := range g.randSource.Perm(n) {
			g.bag[i] = idx + 1
		}
	}
	id := g.bag[len(g.bag)-1]
	g.bag = g.bag[:len(g.bag)-1]
	return tetromino.Spawn(g.set, id)
}

// Grid exposes the occupancy grid, read-only by convention, for the
// move enumerator and the rendering collaborator.
func (g *Game) Grid() *board.Grid { return g.grid }

// CurrentPiece returns the falling piece, or nil once the game is over.
func (g *Game) CurrentPiece() *tetromino.Piece { return g.current }

// NextPiece returns the piece that spawns after the current one locks.
func (g *Game) NextPiece() *tetromino.Piece { return g.next }

// LinesCleared returns the instance's fitness tally.
func (g *Game) LinesCleared() int { return g.linesCleared }

// Over reports whether the instance has reached its terminal state.
func (g *Game) Over() bool { return g.over }

// MoveLeft shifts the piece one column left, reverting on collision.
func (g *Game) MoveLeft() {
	g.shift(-1, 0, false)
}

// MoveRight shifts the piece one column right, reverting on collision.
func (g *Game) MoveRight() {
	g.shift(1, 0, false)
}

// SoftDrop shifts the piece one row down. If the shifted position
// collides the piece locks where it was.
func (g *Game) SoftDrop() {
	g.shift(0, 1, true)
}

// shift moves the current piece by (dx, dy). A colliding shift is
// reverted; if lockOnCollide is set, a rejected downward shift locks
// the piece instead.
func (g *Game) shift(dx, dy int, lockOnCollide bool) {
	if g.over {
		return
	}
	g.current.X += dx
	g.current.Y += dy
	if g.grid.Collides(g.current.Variant(g.set), g.current.X, g.current.Y) {
		g.current.X -= dx
		g.current.Y -= dy
		if lockOnCollide {
			g.lockAndResolve()
		}
	}
}

// HardDrop shifts the piece down until it collides, then locks it at
// the last valid position.
func (g *Game) HardDrop() {
	if g.over {
		return
	}
	v := g.current.Variant(g.set)
	for !g.grid.Collides(v, g.current.X, g.current.Y+1) {
		g.current.Y++
	}
	g.lockAndResolve()
}

// RotateClockwise advances the rotation index, reverting on collision.
// There is no wall-kick search.
func (g *Game) RotateClockwise() {
	g.rotate(true)
}

// RotateCounterclockwise retreats the rotation index, reverting on
// collision.
func (g *Game) RotateCounterclockwise() {
	g.rotate(false)
}

func (g *Game) rotate(clockwise bool) {
	if g.over {
		return
	}
	g.current.Rotate(clockwise)
	if g.grid.Collides(g.current.Variant(g.set), g.current.X, g.current.Y) {
		g.current.Rotate(!clockwise)
	}
}

// PlayPlacement teleports the current piece to a placement chosen by
// the move search and locks it there. The placement must have come from
// the enumerator for the current grid, so it is collision free.
func (g *Game) PlayPlacement(rotation, x, y int) {
	if g.over {
		return
	}
	g.current.Rotation = rotation
	g.current.X = x
	g.current.Y = y
	g.lockAndResolve()
}

// lockAndResolve writes the current piece into the grid, clears any
// completed rows within its span, then spawns the next piece. If the
// fresh spawn immediately collides, the instance transitions to its
// terminal state.
func (g *Game) lockAndResolve() {
	v := g.current.Variant(g.set)
	g.grid.Place(v, g.current.X, g.current.Y)
	g.linesCleared += g.grid.ClearLines(v, g.current.Y)

	g.current = g.next
	g.next = g.drawPiece()
	if g.grid.Collides(g.current.Variant(g.set), g.current.X, g.current.Y) {
		g.current = nil
		g.over = true
	}
}

// SetGameOver forces the terminal state. The evolution controller calls
// this when the enumerator finds no legal placement for the current
// piece, which is equivalent to a spawn collision.
func (g *Game) SetGameOver() {
	g.current = nil
	g.over = true
}
