package domain

import (
	"fmt"
	"strings"
)

// AngleMode defines how trigonometric functions interpret their operand.
type AngleMode string

const (
	Degrees AngleMode = "DEG"
	Radians AngleMode = "RAD"
)

// Toggle returns the other mode.
func (m AngleMode) Toggle() AngleMode {
	if m == Radians {
		return Degrees
	}
	return Radians
}

// ParseAngleMode accepts "deg", "degrees", "rad", "radians" in any case.
func ParseAngleMode(s string) (AngleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deg", "degree", "degrees":
		return Degrees, nil
	case "rad", "radian", "radians":
		return Radians, nil
	}
	return "", fmt.Errorf("unknown angle mode %q", s)
}

// HistoryEntry pairs a submitted expression with its formatted result.
type HistoryEntry struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// String renders the entry the way the history list shows it.
func (h HistoryEntry) String() string {
	return h.Expression + " = " + h.Result
}

// Snapshot is the plain-data copy of a calculator session.
type Snapshot struct {
	// Buffer is the expression under construction.
	Buffer string `json:"buffer"`

	// LastExpression is the expression most recently evaluated.
	LastExpression string `json:"last_expression,omitempty"`

	// History is ordered oldest first.
	History []HistoryEntry `json:"history"`

	Memory    float64   `json:"memory"`
	AngleMode AngleMode `json:"angle_mode"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.History = append([]HistoryEntry(nil), s.History...)
	return &c
}

// Recent returns the history most recent first.
func (s *Snapshot) Recent() []HistoryEntry {
	out := make([]HistoryEntry, len(s.History))
	for i, e := range s.History {
		out[len(s.History)-1-i] = e
	}
	return out
}
