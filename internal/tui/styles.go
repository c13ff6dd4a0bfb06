package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/bebora/grubix/internal/cube"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("220")).
			Padding(0, 2)

	netStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)
)

// Sticker colors, indexed by cube.Color.
var palette = [6]colorful.Color{
	cube.White:  mustHex("#f4f4f4"),
	cube.Yellow: mustHex("#ffd500"),
	cube.Green:  mustHex("#009b48"),
	cube.Blue:   mustHex("#0046ad"),
	cube.Red:    mustHex("#b71234"),
	cube.Orange: mustHex("#ff5800"),
}

// plastic is the body color between stickers.
var plastic = mustHex("#1c1c1c")

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// stickerColor returns the display color of a canonical sticker.
func stickerColor(c cube.Color) colorful.Color {
	if int(c) < len(palette) {
		return palette[c]
	}
	return plastic
}
