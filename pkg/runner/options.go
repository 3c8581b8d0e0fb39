package runner

import (
	"log/slog"

	"github.com/aretw0/abacus/pkg/session"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithSession configures the calculator session driven by the Runner.
func WithSession(s *session.Session) Option {
	return func(r *Runner) {
		r.Session = s
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithMaxLineSize bounds the size of one input line in bytes.
func WithMaxLineSize(n int) Option {
	return func(r *Runner) {
		r.MaxLineSize = n
	}
}
