// Package cube provides the canonical facelet model of the puzzle.
//
// The geometric engine moves pieces; this package mirrors every committed move as
// a permutation of 54 colored stickers so that solved checks and solvers never
// have to look at transforms.
package cube

import (
	"strings"

	"github.com/bebora/grubix/pkg/types"
)

// Color represents a sticker color.
type Color byte

const (
	White  Color = 0 // Up face when solved
	Yellow Color = 1 // Down face when solved
	Green  Color = 2 // Front face when solved
	Blue   Color = 3 // Back face when solved
	Red    Color = 4 // Right face when solved
	Orange Color = 5 // Left face when solved
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	default:
		return "?"
	}
}

// Face indexes the six sticker faces of the canonical cube.
type Face int

const (
	U Face = 0 // Up (White)
	D Face = 1 // Down (Yellow)
	F Face = 2 // Front (Green)
	B Face = 3 // Back (Blue)
	R Face = 4 // Right (Red)
	L Face = 5 // Left (Orange)
)

func (f Face) String() string {
	switch f {
	case U:
		return "U"
	case D:
		return "D"
	case F:
		return "F"
	case B:
		return "B"
	case R:
		return "R"
	case L:
		return "L"
	default:
		return "?"
	}
}

// SolvedColor returns the color of a face when solved.
func (f Face) SolvedColor() Color {
	return Color(f)
}

// Cube represents a 3x3 cube as 54 stickers.
// Each face has 9 facelets indexed as:
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// Slice moves (M, E, S) carry centers along, so solved means every
// face is uniform rather than every face showing its home color.
type Cube struct {
	// Facelets[face][position] = color
	Facelets [6][9]Color

	history []types.Move
}

// New creates a solved cube with standard orientation:
// White on top, Green in front.
func New() *Cube {
	c := &Cube{}
	c.Reset()
	return c
}

// Reset returns the cube to the solved state and clears its history.
func (c *Cube) Reset() {
	for face := Face(0); face < 6; face++ {
		for i := 0; i < 9; i++ {
			c.Facelets[face][i] = face.SolvedColor()
		}
	}
	c.history = nil
}

// Clone creates a deep copy of the cube, history included.
func (c *Cube) Clone() *Cube {
	clone := &Cube{Facelets: c.Facelets}
	clone.history = append([]types.Move(nil), c.history...)
	return clone
}

// IsSolved returns true if every face shows a single color.
func (c *Cube) IsSolved() bool {
	for face := Face(0); face < 6; face++ {
		first := c.Facelets[face][0]
		for i := 1; i < 9; i++ {
			if c.Facelets[face][i] != first {
				return false
			}
		}
	}
	return true
}

// IsHome returns true if every face shows its own solved color.
func (c *Cube) IsHome() bool {
	for face := Face(0); face < 6; face++ {
		for i := 0; i < 9; i++ {
			if c.Facelets[face][i] != face.SolvedColor() {
				return false
			}
		}
	}
	return true
}

// History returns the moves applied since the last reset.
func (c *Cube) History() []types.Move {
	return append([]types.Move(nil), c.history...)
}

// String returns a text net of the cube.
func (c *Cube) String() string {
	var sb strings.Builder

	writeRow := func(face Face, row int) {
		for col := 0; col < 3; col++ {
			sb.WriteString(c.Facelets[face][row*3+col].String())
			sb.WriteByte(' ')
		}
	}

	for row := 0; row < 3; row++ {
		sb.WriteString("      ")
		writeRow(U, row)
		sb.WriteByte('\n')
	}
	for row := 0; row < 3; row++ {
		for _, face := range []Face{L, F, R, B} {
			writeRow(face, row)
		}
		sb.WriteByte('\n')
	}
	for row := 0; row < 3; row++ {
		sb.WriteString("      ")
		writeRow(D, row)
		sb.WriteByte('\n')
	}

	return sb.String()
}
