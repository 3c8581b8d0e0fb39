package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
)

// Runner handles the read-dispatch-display loop of a calculator session.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	Handler IOHandler
	Session *session.Session

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// MaxLineSize bounds one input line. Zero uses the sanitizer default.
	MaxLineSize int
}

// NewRunner creates a Runner. Without options it drives a fresh session over Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	if r.Session == nil {
		r.Session = session.New(session.WithLogger(r.Logger))
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run processes input until it is exhausted, the user quits, or ctx is cancelled
// (including SIGINT/SIGTERM). None of these is an error.
func (r *Runner) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.Handler.Output(ctx, r.view(nil)); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	for {
		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				r.Logger.Debug("runner stopped", "reason", err)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		quit, err := r.Step(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Step handles one line of input. It reports true when the user asked to quit.
func (r *Runner) Step(ctx context.Context, line string) (bool, error) {
	clean, err := SanitizeInputLimit(line, r.MaxLineSize)
	if err != nil {
		r.Logger.Debug("input rejected", "err", err)
		return false, r.Handler.SystemOutput(ctx, fmt.Sprintf("Error: %v. Please try again.", err))
	}

	switch strings.ToLower(strings.TrimSpace(clean)) {
	case "q", "quit", "exit":
		return true, nil
	case "help", "?":
		return false, r.Handler.SystemOutput(ctx, KeypadMarkdown())
	case "history":
		return false, r.Handler.Output(ctx, r.view(nil).WithHistory(r.Session.Snapshot()))
	}

	err = Dispatch(r.Session, clean)
	if err != nil {
		r.Logger.Debug("key failed", "key", clean, "kind", domain.KindOf(err), "err", err)
	}
	if err := r.Handler.Output(ctx, r.view(err)); err != nil {
		return false, fmt.Errorf("output error: %w", err)
	}
	return false, nil
}

func (r *Runner) view(err error) View {
	return NewView(r.Session.Snapshot(), err)
}
