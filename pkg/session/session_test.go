package session_test

import (
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typed(t *testing.T, s *session.Session, text string) {
	t.Helper()
	require.NoError(t, s.AppendText(text))
}

func TestSession_Evaluate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"precedence", "2+3*4", "14"},
		{"grouping", "(2+3)*4", "20"},
		{"float noise", "0.1+0.2", "0.3"},
		{"power", "2**10", "1024"},
		{"modulo word", "7 mod 3", "1"},
		{"constant", "2*pi", "6.2831853072"},
		{"degrees", "sin(90)", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.New()
			typed(t, s, tt.input)

			out, err := s.Evaluate()
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Result)
			assert.Equal(t, tt.input, out.Expression)
			assert.Equal(t, tt.want, s.Buffer(), "result seeds the next expression")
			assert.Equal(t, tt.input, s.LastExpression())

			history := s.History()
			require.Len(t, history, 1)
			assert.Equal(t, domain.HistoryEntry{Expression: tt.input, Result: tt.want}, history[0])
		})
	}
}

func TestSession_EvaluateRadians(t *testing.T) {
	s := session.New(session.WithAngleMode(domain.Radians))
	typed(t, s, "sin(90)")

	out, err := s.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, "0.8939966636", out.Result)
}

func TestSession_EvaluateFailureClearsBuffer(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		message string
	}{
		{"divide by zero", "5/0", domain.ErrDivideByZero, "Cannot divide by zero"},
		{"unbalanced", "(2+3", domain.ErrUnbalancedParens, "Error"},
		{"dangling operator", "2+", domain.ErrUnexpectedToken, "Error"},
		{"factorial overflow", "fact(171)", domain.ErrOverflow, "Error"},
		{"factorial domain", "fact(-1)", domain.ErrDomain, "Error"},
		{"log domain", "log(0)", domain.ErrDomain, "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.New()
			typed(t, s, "1+1")
			_, err := s.Evaluate()
			require.NoError(t, err)
			s.ClearAll()

			typed(t, s, tt.input)
			_, err = s.Evaluate()
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.message, domain.Message(err))
			assert.Empty(t, s.Buffer())
			assert.Equal(t, "0", s.Display())
			assert.Len(t, s.History(), 1, "history is untouched on failure")

			// The session stays usable.
			typed(t, s, "2*3")
			out, err := s.Evaluate()
			require.NoError(t, err)
			assert.Equal(t, "6", out.Result)
		})
	}
}

func TestSession_FactorialBounds(t *testing.T) {
	s := session.New()
	typed(t, s, "fact(170)")
	_, err := s.Evaluate()
	assert.NoError(t, err)
}

func TestSession_EvaluateEmptyIsNoop(t *testing.T) {
	s := session.New()
	_, err := s.Evaluate()
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Empty(t, s.History())
	assert.Equal(t, "0", s.Display())
}

func TestSession_HistoryBound(t *testing.T) {
	s := session.New()
	for i := 1; i <= 11; i++ {
		s.ClearAll()
		require.NoError(t, s.AppendDigit(string(rune('0'+i%10))))
		_, err := s.Evaluate()
		require.NoError(t, err)
	}

	history := s.History()
	require.Len(t, history, 10)
	// Entries 2..11, most recent first. The 11th evaluation typed "1".
	assert.Equal(t, "1", history[0].Expression)
	assert.Equal(t, "0", history[1].Expression)
	assert.Equal(t, "2", history[9].Expression)
}

func TestSession_AppendOperations(t *testing.T) {
	s := session.New()

	require.NoError(t, s.AppendDigit("1"))
	require.NoError(t, s.AppendDigit("00"))
	s.AppendDecimalPoint()
	require.NoError(t, s.AppendDigit("5"))
	require.NoError(t, s.AppendOperator("×"))
	require.NoError(t, s.AppendParen("("))
	require.NoError(t, s.AppendConstant("pi"))
	require.NoError(t, s.AppendOperator("÷"))
	require.NoError(t, s.AppendDigit("2"))
	require.NoError(t, s.AppendParen(")"))
	assert.Equal(t, "100.5*(π/2)", s.Buffer())

	assert.ErrorIs(t, s.AppendDigit("12"), domain.ErrInvalidKey)
	assert.ErrorIs(t, s.AppendOperator("^"), domain.ErrInvalidKey)
	assert.ErrorIs(t, s.AppendFunction("cosh"), domain.ErrInvalidKey)
	assert.ErrorIs(t, s.AppendConstant("tau"), domain.ErrInvalidKey)
	assert.ErrorIs(t, s.AppendParen("["), domain.ErrInvalidKey)
	assert.ErrorIs(t, s.AppendText("2$3"), domain.ErrInvalidKey)
	assert.Equal(t, "100.5*(π/2)", s.Buffer(), "rejected keys leave the buffer alone")
}

func TestSession_AppendFunction(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"sin", "sin("},
		{"LOG", "log("},
		{"√", "sqrt("},
		{"factorial", "fact("},
		{"exp", "*10**"},
		{"pow", "**"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := session.New()
			require.NoError(t, s.AppendFunction(tt.key))
			assert.Equal(t, tt.want, s.Buffer())
		})
	}
}

func TestSession_ExponentEntry(t *testing.T) {
	s := session.New()
	require.NoError(t, s.AppendDigit("2"))
	require.NoError(t, s.AppendFunction("exp"))
	require.NoError(t, s.AppendDigit("3"))

	out, err := s.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, "2000", out.Result)
}

func TestSession_Append(t *testing.T) {
	s := session.New()
	require.NoError(t, s.Append(domain.InputFunction, "sqrt"))
	require.NoError(t, s.Append(domain.InputDigit, "9"))
	require.NoError(t, s.Append(domain.InputParen, ")"))
	require.NoError(t, s.Append(domain.InputOperator, "+"))
	require.NoError(t, s.Append(domain.InputConstant, "e"))
	require.NoError(t, s.Append(domain.InputDecimalPoint, ""))
	assert.Equal(t, "sqrt(9)+e.", s.Buffer())

	assert.ErrorIs(t, s.Append("memory", "add"), domain.ErrInvalidKey)
}

func TestSession_MaxInput(t *testing.T) {
	s := session.New(session.WithMaxInput(3))
	for _, d := range []string{"1", "2", "3", "4"} {
		require.NoError(t, s.AppendDigit(d))
	}
	assert.Equal(t, "123", s.Buffer())

	require.NoError(t, s.AppendConstant("π"))
	assert.Equal(t, "123", s.Buffer())
}

func TestSession_ApplyFunction(t *testing.T) {
	s := session.New()
	typed(t, s, "4*4")

	got, err := s.ApplyFunction("sqrt")
	require.NoError(t, err)
	assert.Equal(t, "4", got)
	assert.Equal(t, "4", s.Buffer())
	assert.Empty(t, s.History(), "immediate mode does not record history")

	s.ClearEntry()
	got, err = s.ApplyFunction("fact")
	require.NoError(t, err)
	assert.Equal(t, "1", got, "an empty buffer counts as 0")

	s.ClearEntry()
	_, err = s.ApplyFunction("recip")
	assert.ErrorIs(t, err, domain.ErrDivideByZero)
	assert.Empty(t, s.Buffer())

	typed(t, s, "-4")
	_, err = s.ApplyFunction("sqrt")
	assert.ErrorIs(t, err, domain.ErrDomain)
	assert.Empty(t, s.Buffer())

	_, err = s.ApplyFunction("cosh")
	assert.ErrorIs(t, err, domain.ErrInvalidKey)
}

func TestSession_Backspace(t *testing.T) {
	s := session.New()
	s.Backspace()
	assert.Empty(t, s.Buffer())
	assert.Equal(t, "0", s.Display())

	typed(t, s, "2*π")
	s.Backspace()
	assert.Equal(t, "2*", s.Buffer())
}

func TestSession_ClearKeepsMemoryAndHistory(t *testing.T) {
	s := session.New()
	typed(t, s, "3")
	s.MemoryAdd()
	_, err := s.Evaluate()
	require.NoError(t, err)
	typed(t, s, "+1")

	s.ClearEntry()
	assert.Empty(t, s.Buffer())
	assert.Equal(t, "3", s.LastExpression())

	s.ClearAll()
	assert.Empty(t, s.LastExpression())
	assert.Equal(t, 3.0, s.Memory())
	assert.Len(t, s.History(), 1)
}

func TestSession_ToggleAngleMode(t *testing.T) {
	s := session.New()
	assert.Equal(t, domain.Degrees, s.AngleMode())
	typed(t, s, "sin(90)")

	assert.Equal(t, domain.Radians, s.ToggleAngleMode())
	assert.Equal(t, "sin(90)", s.Buffer(), "toggling does not re-evaluate")
	assert.Equal(t, domain.Degrees, s.ToggleAngleMode())

	s.SetAngleMode(domain.Radians)
	assert.Equal(t, domain.Radians, s.AngleMode())
}

func TestSession_Memory(t *testing.T) {
	s := session.New()
	typed(t, s, "2+3")

	assert.Equal(t, "5", s.MemoryAdd())
	assert.Equal(t, "10", s.MemoryAdd())
	assert.Equal(t, 10.0, s.Memory())

	s.ClearEntry()
	typed(t, s, "4")
	assert.Equal(t, "6", s.MemorySubtract())

	s.ClearEntry()
	typed(t, s, "2+")
	assert.Equal(t, "6", s.MemoryAdd(), "invalid buffer leaves memory unchanged")
	assert.Equal(t, "6", s.MemorySubtract())

	assert.Equal(t, "6", s.MemoryRecall())
	assert.Equal(t, "6", s.Buffer())

	s.MemoryClear()
	assert.Equal(t, 0.0, s.Memory())
	assert.Equal(t, "0", s.MemoryDisplay())
}

func TestSession_MemoryDisplayPrecision(t *testing.T) {
	s := session.New()
	typed(t, s, "1/3")
	assert.Equal(t, "0.3333", s.MemoryAdd())
	assert.Equal(t, "0.3333333333", s.MemoryRecall())
}

func TestSession_UseLastAnswer(t *testing.T) {
	s := session.New()
	got, ok := s.UseLastAnswer()
	assert.False(t, ok)
	assert.Empty(t, got)

	typed(t, s, "6*7")
	_, err := s.Evaluate()
	require.NoError(t, err)
	s.ClearAll()

	got, ok = s.UseLastAnswer()
	assert.True(t, ok)
	assert.Equal(t, "42", got)
	assert.Equal(t, "42", s.Buffer())
}

func TestSession_SelectHistory(t *testing.T) {
	s := session.New()
	for _, in := range []string{"1+1", "2+2"} {
		s.ClearAll()
		typed(t, s, in)
		_, err := s.Evaluate()
		require.NoError(t, err)
	}

	got, err := s.SelectHistory(1)
	require.NoError(t, err)
	assert.Equal(t, "1+1", got)
	assert.Equal(t, "1+1", s.Buffer(), "the expression, not the result, is loaded")

	_, err = s.SelectHistory(2)
	assert.ErrorIs(t, err, domain.ErrHistoryIndex)
}

func TestSession_SnapshotRoundTrip(t *testing.T) {
	s := session.New(session.WithAngleMode(domain.Radians))
	typed(t, s, "9")
	s.MemoryAdd()
	_, err := s.Evaluate()
	require.NoError(t, err)
	typed(t, s, "+1")

	snap := s.Snapshot()
	restored := session.Restore(snap)

	assert.Equal(t, snap, restored.Snapshot())
	assert.Equal(t, domain.Radians, restored.AngleMode())
	assert.Equal(t, "9+1", restored.Buffer())
	assert.Equal(t, 9.0, restored.Memory())
}

func TestSession_Hooks(t *testing.T) {
	var evals []*domain.EvalEvent
	var mems []*domain.MemoryEvent
	s := session.New(session.WithHooks(domain.Hooks{
		OnEvaluate: func(e *domain.EvalEvent) { evals = append(evals, e) },
		OnMemory:   func(e *domain.MemoryEvent) { mems = append(mems, e) },
	}))

	typed(t, s, "1/0")
	_, _ = s.Evaluate()
	typed(t, s, "9")
	_, _ = s.ApplyFunction("sqrt")
	s.MemoryAdd()

	require.Len(t, evals, 2)
	assert.Equal(t, domain.EventEvaluate, evals[0].Type)
	assert.Equal(t, domain.KindDivideByZero, evals[0].Kind)
	assert.Equal(t, domain.EventApply, evals[1].Type)
	assert.Equal(t, "sqrt", evals[1].Function)
	assert.Equal(t, "3", evals[1].Result)
	assert.Equal(t, domain.KindNone, evals[1].Kind)

	require.Len(t, mems, 1)
	assert.Equal(t, "add", mems[0].Op)
	assert.True(t, mems[0].Applied)
	assert.Equal(t, 3.0, mems[0].Memory)
}
