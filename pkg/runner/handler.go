package runner

import (
	"context"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the calculator after an event.
	Output(ctx context.Context, view View) error

	// Input reads the next key or expression fragment.
	// It returns io.EOF when the input is exhausted.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message to the user (e.g. help, input errors).
	// This is distinct from the calculator display.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms markdown before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the runner to a library.
type ContentRenderer func(string) (string, error)
