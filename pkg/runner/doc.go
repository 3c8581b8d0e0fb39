/*
Package runner implements the keypad and the interactive loop of the calculator.

It acts as the bridge between a session.Session and the outside world: Dispatch
maps keypad labels and keyboard bindings to session operations, and the Runner
reads keys through a pluggable IOHandler and presents a View after each one.

# Key Components

  - Dispatch: Presses one key (or appends a typed fragment) on a session.
  - Runner: The read-dispatch-display loop.
  - IOHandler: Decouples how keys are read and views are shown (Text, JSON).
  - View: The display, indicators and outcome after an event.

# Usage

	r := runner.NewRunner(
		runner.WithSession(session.New()),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
