/*
Package abacus is a scientific calculator engine: a tokenizer, a recursive descent
parser and an evaluator for arithmetic and scientific expressions, driven by a
calculator session with an input buffer, a bounded history, a memory register and
a DEG/RAD angle mode.

# Concept

Abacus keeps the calculator state (the session) apart from the pure expression
pipeline (tokens, tree, value) and from the frontends. The same session runs behind
the interactive terminal, the JSON-Lines mode, the HTTP API and the MCP server.

# Key Features

  - Deterministic Evaluation: results are rounded to 10 decimal places and non-finite values are errors.
  - Error Recovery: a failed evaluation clears the input and is reported as a stable error kind.
  - Keypad Semantics: function keys apply immediately to the display, memory keys never fail.
  - Hexagonal Architecture: sessions persist through a SessionStore port.

# Usage

Drive a calculator with key presses:

	calc := abacus.New()
	for _, key := range []string{"2", "×", "sin", "("} {
		calc.Press(key)
	}
	...

Or evaluate a whole expression:

	result, err := abacus.Eval("2*sin(30)+1", domain.Degrees)

# Architecture

  - pkg/expr: tokenizer, parser and evaluator.
  - pkg/session: the calculator session and the session manager.
  - pkg/runner: keypad, REPL loop and IO handlers.
  - pkg/adapters: session stores, HTTP and MCP.
*/
package abacus
