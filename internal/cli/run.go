package cli

import (
	"context"
	"io"

	"github.com/aretw0/abacus/internal/presentation/tui"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Options
	JSON     bool
	Headless bool
}

// RunSession drives one interactive calculator session over in and out.
func RunSession(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer) error {
	app, err := NewApp(opts.Options, true)
	if err != nil {
		return err
	}
	cfg := app.Config

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(in, out)
	} else {
		textOpts := []runner.TextHandlerOption{runner.WithTextHandlerWidth(cfg.DisplayWidth)}
		if !opts.Headless {
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(tui.NewRenderer(0)))
		} else {
			textOpts = append(textOpts, runner.WithTextHandlerPrompt(""))
		}
		handler = runner.NewTextHandler(in, out, textOpts...)

		if !opts.Headless && runner.IsTerminal(out) {
			tui.PrintBanner(out)
			io.WriteString(out, printSystemMessage("Angle mode %s. Type 'help' for the keypad, 'quit' to leave.", cfg.Mode()))
		}
	}

	r := runner.NewRunner(
		runner.WithSession(session.New(app.SessionOptions()...)),
		runner.WithLogger(app.Logger),
		runner.WithInputHandler(handler),
		runner.WithMaxLineSize(cfg.MaxLineSize),
	)
	app.Logger.Debug("session started", "angle_mode", cfg.Mode(), "json", opts.JSON)
	return r.Run(ctx)
}
