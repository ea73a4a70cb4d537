package board

import (
	"fmt"
	"strings"

	"github.com/domino14/tetro/tetromino"
)

// ToDisplayText returns an ASCII rendering of the grid, optionally
// overlaying the given piece. Meant for the shell and for debugging;
// the real rendering collaborator reads cells directly.
func (g *Grid) ToDisplayText(set *tetromino.Set, piece *tetromino.Piece) string {
	var sb strings.Builder
	sb.WriteString("   " + strings.Repeat("-", g.width*2) + "\n")
	for y := 0; y < g.height; y++ {
		sb.WriteString(fmt.Sprintf("%2d|", y+1))
		for x := 0; x < g.width; x++ {
			sb.WriteString(g.cellDisplay(set, piece, x, y))
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", g.width*2) + "\n")
	return sb.String()
}

func (g *Grid) cellDisplay(set *tetromino.Set, piece *tetromino.Piece, x, y int) string {
	if piece != nil {
		v := piece.Variant(set)
		mx := x - piece.X
		my := y - piece.Y
		if mx >= 0 && mx < v.Size && my >= 0 && my < v.Size && v.Mask[mx][my] {
			return "[]"
		}
	}
	if id := g.At(x, y); id != 0 {
		return fmt.Sprintf("%d ", id)
	}
	return ". "
}
