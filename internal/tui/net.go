package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bebora/grubix/internal/cube"
)

// RenderNet draws the canonical state as an unfolded net:
//
//	  U
//	L F R B
//	  D
func RenderNet(c *cube.Cube) string {
	var styles [6]lipgloss.Style
	for i := range styles {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(palette[i].Hex()))
	}

	var sb strings.Builder
	writeRow := func(face cube.Face, row int) {
		for col := 0; col < 3; col++ {
			color := c.Facelets[face][row*3+col]
			if int(color) < len(styles) {
				sb.WriteString(styles[color].Render("██"))
			} else {
				sb.WriteString("??")
			}
		}
	}
	pad := strings.Repeat(" ", 6)

	for row := 0; row < 3; row++ {
		sb.WriteString(pad)
		writeRow(cube.U, row)
		sb.WriteByte('\n')
	}
	for row := 0; row < 3; row++ {
		for _, face := range []cube.Face{cube.L, cube.F, cube.R, cube.B} {
			writeRow(face, row)
		}
		sb.WriteByte('\n')
	}
	for row := 0; row < 3; row++ {
		sb.WriteString(pad)
		writeRow(cube.D, row)
		if row < 2 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
