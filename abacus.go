package abacus

import (
	"log/slog"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/expr"
	"github.com/aretw0/abacus/pkg/format"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
)

// Calculator is the high-level entry point for the abacus library.
// It drives one session through keypad presses, the way a user would.
// A Calculator is not safe for concurrent use; see session.Manager for that.
type Calculator struct {
	session *session.Session
	opts    []session.Option
}

// Option defines a functional option for configuring the Calculator.
type Option func(*Calculator)

// WithAngleMode sets the initial angle mode (default: degrees).
func WithAngleMode(mode domain.AngleMode) Option {
	return func(c *Calculator) {
		c.opts = append(c.opts, session.WithAngleMode(mode))
	}
}

// WithHistorySize sets how many evaluations are remembered (default: 10).
func WithHistorySize(n int) Option {
	return func(c *Calculator) {
		c.opts = append(c.opts, session.WithHistorySize(n))
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		c.opts = append(c.opts, session.WithLogger(logger))
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(c *Calculator) {
		c.opts = append(c.opts, session.WithHooks(hooks))
	}
}

// New creates a Calculator with an empty session.
func New(opts ...Option) *Calculator {
	c := &Calculator{}
	for _, opt := range opts {
		opt(c)
	}
	c.session = session.New(c.opts...)
	return c
}

// Press presses one key (a keypad label or alias) or types expression text,
// and returns what the calculator shows afterwards.
// Failures are reported both in the view and as the returned error.
func (c *Calculator) Press(key string) (runner.View, error) {
	err := runner.Dispatch(c.session, key)
	return runner.NewView(c.session.Snapshot(), err), err
}

// Display returns the text on the display.
func (c *Calculator) Display() string {
	return c.session.Display()
}

// History returns past evaluations, most recent first.
func (c *Calculator) History() []domain.HistoryEntry {
	return c.session.History()
}

// Session exposes the underlying session for the operations the keypad does not cover.
func (c *Calculator) Session() *session.Session {
	return c.session
}

// Eval evaluates a whole expression without a session and formats the result.
func Eval(expression string, mode domain.AngleMode) (string, error) {
	v, err := expr.Calculate(expression, mode)
	if err != nil {
		return "", err
	}
	return format.Number(v), nil
}
