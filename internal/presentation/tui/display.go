// Package tui renders calculator state for terminals.
package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/muesli/termenv"
)

// DefaultWidth is the number of characters the display shows before truncating.
const DefaultWidth = 20

// Ellipsis marks a truncated display.
const Ellipsis = "…"

// Truncate shortens s to width characters followed by an ellipsis.
// Strings that fit are returned unchanged.
func Truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width]) + Ellipsis
}

// Status is what the terminal shows after every key.
type Status struct {
	Display        string
	LastExpression string
	Memory         string
	AngleMode      domain.AngleMode
	Error          string
}

// StatusLine renders the status with termenv colours.
// Width bounds the display and the last expression.
func StatusLine(st Status, width int) string {
	p := termenv.ColorProfile()

	var sb strings.Builder
	if st.LastExpression != "" {
		sb.WriteString(termenv.String(Truncate(st.LastExpression, width)).Foreground(p.Color("#94a3b8")).String())
		sb.WriteString("\n")
	}

	display := termenv.String(Truncate(st.Display, width)).Bold()
	if st.Error != "" {
		display = termenv.String(st.Error).Foreground(p.Color("#f87171")).Bold()
	}
	sb.WriteString(display.String())
	sb.WriteString("  ")

	meta := fmt.Sprintf("[Mode: %s | M: %s]", st.AngleMode, st.Memory)
	sb.WriteString(termenv.String(meta).Foreground(p.Color("#818cf8")).String())
	return sb.String()
}

// HistoryMarkdown lists entries (most recent first) as a numbered markdown list.
func HistoryMarkdown(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return "_No history yet._\n"
	}
	var sb strings.Builder
	sb.WriteString("## History\n\n")
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. `%s`\n", i, e.String()))
	}
	return sb.String()
}
