package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for abacus.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Gradient from teal to indigo
	lines := []struct {
		text  string
		color string
	}{
		{"         _                          ", "#2dd4bf"},
		{"   __ _ | |__    __ _   ___ _   _ ___ ", "#22d3ee"},
		{"  / _` || '_ \\  / _` | / __| | | / __|", "#38bdf8"},
		{" | (_| || |_) || (_| || (__| |_| \\__ \\", "#60a5fa"},
		{"  \\__,_||_.__/  \\__,_| \\___|\\__,_|___/", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
