package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/abacus/internal/presentation/graph"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/expr"
	"github.com/aretw0/abacus/pkg/format"
	"github.com/aretw0/abacus/pkg/runner"
)

// EvalOptions contains the configuration for the Eval command.
type EvalOptions struct {
	Options
	// Tree prints the annotated expression tree as a Mermaid flowchart.
	Tree bool
}

// Eval evaluates a single expression and writes the formatted result to w.
func Eval(opts EvalOptions, expression string, w io.Writer) error {
	app, err := NewApp(opts.Options, true)
	if err != nil {
		return err
	}
	mode := app.Config.Mode()

	input, err := runner.SanitizeInputLimit(expression, app.Config.MaxLineSize)
	if err != nil {
		return err
	}

	tokens, err := expr.Tokenize(input)
	if err != nil {
		return evalError(err)
	}
	node, err := expr.Parse(tokens)
	if err != nil {
		return evalError(err)
	}
	if opts.Tree {
		fmt.Fprintln(w, graph.GenerateMermaid(node, &graph.TreeOverlay{Mode: mode}))
	}

	value, err := expr.Evaluate(node, mode)
	if err != nil {
		return evalError(err)
	}
	app.Logger.Debug("evaluated", "expression", input, "angle_mode", mode)
	fmt.Fprintln(w, format.Number(value))
	return nil
}

func evalError(err error) error {
	return fmt.Errorf("%s (%s): %w", domain.Message(err), domain.KindOf(err), err)
}
