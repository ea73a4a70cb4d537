package config

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/domino14/tetro/tetromino"
)

//go:embed data/shapes.txt
var builtinShapes string

// DefaultShapeDefinitions returns the built-in seven-tetromino set.
func DefaultShapeDefinitions() ([]tetromino.ShapeDefinition, error) {
	return ParseShapeDefinitions(strings.NewReader(builtinShapes))
}

// LoadShapeDefinitions parses a shape definition file from disk.
func LoadShapeDefinitions(path string) ([]tetromino.ShapeDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shape file: %w", err)
	}
	defer f.Close()
	defs, err := ParseShapeDefinitions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// ParseShapeDefinitions reads the shape definition format: each shape
// sits between a "start" and an "end" line, holding one "row ..."
// line per mask row (O marks a filled cell) plus a "color=r,g,b"
// attribute. Blank lines and #-comments are ignored. Corrupt lines are
// an error, as is geometric validation, which is delegated to the
// geometry table.
func ParseShapeDefinitions(r io.Reader) ([]tetromino.ShapeDefinition, error) {
	var defs []tetromino.ShapeDefinition
	var cur *tetromino.ShapeDefinition
	var rows int

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case line == "start":
			cur = &tetromino.ShapeDefinition{}
			rows = 0
		case line == "end":
			if cur == nil {
				return nil, fmt.Errorf("%w: line %d: end without start",
					tetromino.ErrMalformedShapeDefinition, lineNum)
			}
			defs = append(defs, *cur)
			cur = nil
		case strings.HasPrefix(line, "row"):
			if cur == nil {
				return nil, fmt.Errorf("%w: line %d: row outside start/end",
					tetromino.ErrMalformedShapeDefinition, lineNum)
			}
			cells := strings.TrimSpace(strings.TrimPrefix(line, "row"))
			if rows == 0 {
				cur.Mask = make([][]bool, len(cells))
			}
			if len(cells) != len(cur.Mask) {
				return nil, fmt.Errorf("%w: line %d: row width %d does not match mask width %d",
					tetromino.ErrMalformedShapeDefinition, lineNum, len(cells), len(cur.Mask))
			}
			// The mask is column-major: character i of a row line lands
			// in column i.
			for i := 0; i < len(cells); i++ {
				cur.Mask[i] = append(cur.Mask[i], cells[i] == 'O')
			}
			rows++
		case strings.Contains(line, "="):
			key, value, _ := strings.Cut(line, "=")
			if cur == nil {
				return nil, fmt.Errorf("%w: line %d: attribute outside start/end",
					tetromino.ErrMalformedShapeDefinition, lineNum)
			}
			if key == "color" {
				cur.Color = value
			}
		default:
			return nil, fmt.Errorf("%w: line %d: unparsable line %q",
				tetromino.ErrMalformedShapeDefinition, lineNum, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading shape definitions: %w", err)
	}
	if cur != nil {
		return nil, fmt.Errorf("%w: unterminated shape definition",
			tetromino.ErrMalformedShapeDefinition)
	}
	return defs, nil
}
