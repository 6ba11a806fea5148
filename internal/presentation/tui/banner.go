package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"  _                                      ",
	" | |___      _____ __      ____ _ _   _ ",
	" | __\\ \\ /\\ / / _ \\\\ \\ /\\ / / _` | | | |",
	" | |_ \\ V  V / (_) |\\ V  V / (_| | |_| |",
	"  \\__| \\_/\\_/ \\___/  \\_/\\_/ \\__,_|\\__, |",
	"                                   |___/ ",
}

// Teal to blue, one color per line.
var bannerColors = []string{"#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa", "#818cf8", "#a78bfa"}

// PrintBanner writes the ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()

	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i%len(bannerColors)])))
	}
	fmt.Fprintln(w)
}
