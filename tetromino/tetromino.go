// Package tetromino holds the precomputed geometry table for every
// piece shape. All four rotations of every shape are generated once, at
// startup, together with their legal placement-offset envelopes and the
// list of geometrically distinct rotations. After construction the
// table is immutable and safe for concurrent reads.
package tetromino

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedShapeDefinition is wrapped by all shape-validation
// failures during table construction.
var ErrMalformedShapeDefinition = errors.New("malformed shape definition")

// Color is an RGB triple for the rendering collaborator. The engine
// itself never looks at it.
type Color struct {
	R, G, B uint8
}

// ShapeDefinition is the raw input for one shape, as parsed by the
// configuration layer: a square mask indexed mask[x][y] and a color
// attribute in "r,g,b" form.
type ShapeDefinition struct {
	Mask  [][]bool
	Color string
}

// ShapeVariant is the precomputed geometry of one (shape, rotation)
// pair. MinX/MinY/MaxX/MaxY are the smallest and largest anchor
// offsets at which the mask stays inside the nominal grid; they depend
// only on the grid dimensions, not its contents. Variants are
// read-only after construction; a Piece refers to a variant's mask by
// reference and must never write through it.
type ShapeVariant struct {
	ID       int
	Rotation int
	Size     int
	Mask     [][]bool
	MinX     int
	MinY     int
	MaxX     int
	MaxY     int
	Color    Color
}

// Set is the geometry table: four variants per shape, indexed so that
// Variant(id, rotation) is an O(1) lookup, plus the rotation class of
// each shape.
type Set struct {
	gridWidth  int
	gridHeight int
	variants   []*ShapeVariant
	rotClasses [][]int
	largest    int
}

// NewSet builds the geometry table from raw shape definitions against
// the nominal grid dimensions. Definitions with no rows, a non-square
// mask, or an unparsable color fail with ErrMalformedShapeDefinition.
func NewSet(defs []ShapeDefinition, gridWidth, gridHeight int) (*Set, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no shapes defined", ErrMalformedShapeDefinition)
	}
	s := &Set{
		gridWidth:  gridWidth,
		gridHeight: gridHeight,
		variants:   make([]*ShapeVariant, 0, len(defs)*4),
		rotClasses: make([][]int, 0, len(defs)),
	}
	for i, def := range defs {
		id := i + 1
		if err := s.addShape(id, def); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) addShape(id int, def ShapeDefinition) error {
	size := len(def.Mask)
	if size == 0 {
		return fmt.Errorf("%w: shape %d has no mask rows", ErrMalformedShapeDefinition, id)
	}
	for _, col := range def.Mask {
		if len(col) != size {
			return fmt.Errorf("%w: shape %d mask is not square (%dx%d)",
				ErrMalformedShapeDefinition, id, size, len(col))
		}
	}
	color, err := parseColor(def.Color)
	if err != nil {
		return fmt.Errorf("%w: shape %d: %v", ErrMalformedShapeDefinition, id, err)
	}
	if size > s.largest {
		s.largest = size
	}

	mask := copyMask(def.Mask)
	for rot := 0; rot < 4; rot++ {
		if rot != 0 {
			mask = rotateMask(mask)
		}
		v := &ShapeVariant{
			ID:       id,
			Rotation: rot,
			Size:     size,
			Mask:     mask,
			Color:    color,
		}
		// Probe outward from offset 0 until the mask would exit the
		// nominal grid. This is the legal anchor envelope.
		for !maskOutOfBounds(mask, v.MinX-1, 0, s.gridWidth, s.gridHeight) {
			v.MinX--
		}
		for !maskOutOfBounds(mask, 0, v.MinY-1, s.gridWidth, s.gridHeight) {
			v.MinY--
		}
		for !maskOutOfBounds(mask, v.MaxX+1, 0, s.gridWidth, s.gridHeight) {
			v.MaxX++
		}
		for !maskOutOfBounds(mask, 0, v.MaxY+1, s.gridWidth, s.gridHeight) {
			v.MaxY++
		}
		s.variants = append(s.variants, v)
	}

	// A rotation joins the class only if its trimmed mask differs from
	// every representative accepted so far.
	class := []int{0}
	for rot := 1; rot < 4; rot++ {
		unique := true
		for _, rep := range class {
			if !rotationallyDistinct(s.Variant(id, rot).Mask, s.Variant(id, rep).Mask) {
				unique = false
				break
			}
		}
		if unique {
			class = append(class, rot)
		}
	}
	s.rotClasses = append(s.rotClasses, class)
	return nil
}

// NumShapes returns the number of distinct shapes in the table.
func (s *Set) NumShapes() int {
	return len(s.rotClasses)
}

// Variant returns the immutable geometry for (id, rotation mod 4).
// Shape ids start at 1.
func (s *Set) Variant(id, rotation int) *ShapeVariant {
	return s.variants[(id-1)*4+((rotation%4)+4)%4]
}

// RotationClass returns the geometrically distinct rotation indices of
// a shape. Callers must not mutate the returned slice.
func (s *Set) RotationClass(id int) []int {
	return s.rotClasses[id-1]
}

// LargestSize returns the mask side length of the biggest shape.
func (s *Set) LargestSize() int {
	return s.largest
}

// GridWidth returns the nominal grid width the envelopes were probed
// against.
func (s *Set) GridWidth() int { return s.gridWidth }

// GridHeight returns the nominal grid height the envelopes were probed
// against.
func (s *Set) GridHeight() int { return s.gridHeight }

// rotateMask returns a new mask rotated 90 degrees clockwise
// (transpose-and-reverse of the square mask).
func rotateMask(mask [][]bool) [][]bool {
	size := len(mask)
	rotated := make([][]bool, size)
	for x := 0; x < size; x++ {
		rotated[x] = make([]bool, size)
		for y := 0; y < size; y++ {
			rotated[x][y] = mask[y][size-x-1]
		}
	}
	return rotated
}

// maskOutOfBounds reports whether any occupied mask cell falls outside
// a gridWidth x gridHeight grid when the mask is anchored at (x, y).
func maskOutOfBounds(mask [][]bool, x, y, gridWidth, gridHeight int) bool {
	size := len(mask)
	for mx := 0; mx < size; mx++ {
		for my := 0; my < size; my++ {
			if !mask[mx][my] {
				continue
			}
			gx := mx + x
			gy := my + y
			if gx < 0 || gy < 0 || gx >= gridWidth || gy >= gridHeight {
				return true
			}
		}
	}
	return false
}

// rotationallyDistinct compares two masks after trimming each to its
// occupied bounding box. Masks with differing trimmed dimensions or any
// differing trimmed cell are distinct.
func rotationallyDistinct(m1, m2 [][]bool) bool {
	x1, y1, w1, h1 := trimBounds(m1)
	x2, y2, w2, h2 := trimBounds(m2)
	if w1 != w2 || h1 != h2 {
		return true
	}
	for i := 0; i < w1; i++ {
		for j := 0; j < h1; j++ {
			if m1[x1+i][y1+j] != m2[x2+i][y2+j] {
				return true
			}
		}
	}
	return false
}

// trimBounds returns the origin and dimensions of a mask's occupied
// bounding box.
func trimBounds(mask [][]bool) (minX, minY, w, h int) {
	size := len(mask)
	minX, minY = size, size
	maxX, maxY := -1, -1
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if mask[x][y] {
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if maxX < minX {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX - minX + 1, maxY - minY + 1
}

func copyMask(mask [][]bool) [][]bool {
	cp := make([][]bool, len(mask))
	for i := range mask {
		cp[i] = make([]bool, len(mask[i]))
		copy(cp[i], mask[i])
	}
	return cp
}

func parseColor(s string) (Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("color %q is not an r,g,b triple", s)
	}
	var vals [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return Color{}, fmt.Errorf("color %q has a bad component %q", s, p)
		}
		vals[i] = uint8(n)
	}
	return Color{R: vals[0], G: vals[1], B: vals[2]}, nil
}
