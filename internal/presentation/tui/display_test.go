package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"12345", 20, "12345"},
		{"12345678901234567890", 20, "12345678901234567890"},
		{"123456789012345678901", 20, "12345678901234567890…"},
		{"ππππ", 2, "ππ…"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
	}
}

func TestStatusLine(t *testing.T) {
	got := StatusLine(Status{
		Display:        "3.1415926535897932384",
		LastExpression: "pi",
		Memory:         "0",
		AngleMode:      domain.Radians,
	}, DefaultWidth)
	assert.Contains(t, got, "pi\n")
	assert.Contains(t, got, "3.141592653589793238…")
	assert.Contains(t, got, "[Mode: RAD | M: 0]")

	got = StatusLine(Status{Display: "0", Error: "Cannot divide by zero", Memory: "0", AngleMode: domain.Degrees}, DefaultWidth)
	assert.Contains(t, got, "Cannot divide by zero")
}

func TestHistoryMarkdown(t *testing.T) {
	assert.Contains(t, HistoryMarkdown(nil), "No history")

	md := HistoryMarkdown([]domain.HistoryEntry{
		{Expression: "2+2", Result: "4"},
		{Expression: "1+1", Result: "2"},
	})
	assert.Contains(t, md, "0. `2+2 = 4`")
	assert.Contains(t, md, "1. `1+1 = 2`")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_.__/")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer(60)
	out, err := render("# Keys\n\n- `=` evaluates\n")
	assert.NoError(t, err)
	assert.Contains(t, out, "evaluates")
}
