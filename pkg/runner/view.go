package runner

import (
	"errors"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/format"
)

// View is what every frontend shows after an event: the display, the last expression
// label, the indicators and the outcome of the event.
// It is shared by the REPL, the JSON-Lines mode and the network adapters.
type View struct {
	Display    string           `json:"display"`
	Expression string           `json:"expression,omitempty"`
	Memory     string           `json:"memory"`
	AngleMode  domain.AngleMode `json:"angle_mode"`

	// Error and Message are set when the event failed.
	Error   domain.ErrorKind `json:"error,omitempty"`
	Message string           `json:"message,omitempty"`

	// History is only filled when it was asked for, most recent first.
	History []domain.HistoryEntry `json:"history,omitempty"`
}

// NewView builds the view of snap after an event that returned err.
// An empty evaluation is not reported as a failure.
func NewView(snap *domain.Snapshot, err error) View {
	display := snap.Buffer
	if display == "" {
		display = "0"
	}
	v := View{
		Display:    display,
		Expression: snap.LastExpression,
		Memory:     format.Memory(snap.Memory),
		AngleMode:  snap.AngleMode,
	}
	if err != nil && !errors.Is(err, domain.ErrEmptyInput) {
		v.Error = domain.KindOf(err)
		v.Message = domain.Message(err)
	}
	return v
}

// WithHistory returns v carrying the history of snap.
func (v View) WithHistory(snap *domain.Snapshot) View {
	v.History = snap.Recent()
	return v
}
