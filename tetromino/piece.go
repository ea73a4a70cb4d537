package tetromino

// Piece is one live instance of a shape on a board. It stores identity
// only (shape id, rotation, anchor); the mask is always looked up from
// the geometry table, never copied into the piece.
type Piece struct {
	ID       int
	Rotation int
	X        int
	Y        int
}

// Variant resolves the piece's current geometry in the given table.
func (p *Piece) Variant(set *Set) *ShapeVariant {
	return set.Variant(p.ID, p.Rotation)
}

// Rotate advances the rotation index clockwise (or counterclockwise if
// clockwise is false), modulo 4. It does no collision checking; the
// caller reverts the rotation if the new mask collides.
func (p *Piece) Rotate(clockwise bool) {
	if clockwise {
		p.Rotation = (p.Rotation + 1) % 4
	} else {
		p.Rotation = (p.Rotation + 3) % 4
	}
}

// Spawn returns a fresh piece at rotation 0, anchored at the top middle
// of the grid for its shape's placement envelope.
func Spawn(set *Set, id int) *Piece {
	v := set.Variant(id, 0)
	return &Piece{
		ID: id,
		X:  (v.MaxX-v.MinX)/2 + v.MinX,
		Y:  v.MinY,
	}
}
