package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/expr"
	"github.com/aretw0/abacus/pkg/format"
)

// DefaultMaxInput is the maximum number of characters the input buffer accepts.
const DefaultMaxInput = 256

// Session owns the state of one calculator: the input buffer, the history ring,
// the memory register and the angle mode. It is not safe for concurrent use;
// every event runs to completion before the next one is accepted.
type Session struct {
	buffer         string
	lastExpression string
	history        *History
	memory         float64
	mode           domain.AngleMode

	maxInput    int
	historySize int
	hooks       domain.Hooks
	logger      *slog.Logger
}

// Outcome is the result of a successful evaluation.
type Outcome struct {
	Result     string `json:"result"`
	Expression string `json:"expression"`
}

// Option configures a Session.
type Option func(*Session)

// WithAngleMode sets the initial angle mode (default: degrees).
func WithAngleMode(mode domain.AngleMode) Option {
	return func(s *Session) {
		s.mode = mode
	}
}

// WithMaxInput bounds the input buffer length in characters.
func WithMaxInput(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxInput = n
		}
	}
}

// WithHistorySize sets the capacity of the history ring.
func WithHistorySize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		mode:        domain.Degrees,
		maxInput:    DefaultMaxInput,
		historySize: DefaultHistorySize,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.history = NewHistory(s.historySize)
	return s
}

// Restore rebuilds a session from snap. Options apply as in New.
func Restore(snap *domain.Snapshot, opts ...Option) *Session {
	s := New(opts...)
	if snap == nil {
		return s
	}
	s.buffer = snap.Buffer
	s.lastExpression = snap.LastExpression
	if !math.IsNaN(snap.Memory) && !math.IsInf(snap.Memory, 0) {
		s.memory = snap.Memory
	}
	if snap.AngleMode != "" {
		s.mode = snap.AngleMode
	}
	for _, e := range snap.History {
		s.history.Push(e)
	}
	return s
}

// Snapshot returns a plain-data copy of the session.
func (s *Session) Snapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Buffer:         s.buffer,
		LastExpression: s.lastExpression,
		History:        s.history.Oldest(),
		Memory:         s.memory,
		AngleMode:      s.mode,
	}
}

// -- Input --

// push concatenates text to the buffer. Appends beyond maxInput are dropped.
func (s *Session) push(text string) {
	if utf8.RuneCountInString(s.buffer)+utf8.RuneCountInString(text) > s.maxInput {
		s.logger.Debug("input buffer full, append ignored", "len", utf8.RuneCountInString(s.buffer), "append", text)
		return
	}
	s.buffer += text
}

// AppendDigit appends a digit key ("0"-"9" or "00").
func (s *Session) AppendDigit(d string) error {
	if d != "00" && (len(d) != 1 || d[0] < '0' || d[0] > '9') {
		return fmt.Errorf("%w: digit %q", domain.ErrInvalidKey, d)
	}
	s.push(d)
	return nil
}

// AppendDecimalPoint appends ".".
func (s *Session) AppendDecimalPoint() {
	s.push(".")
}

var operatorText = map[string]string{
	"+":   "+",
	"-":   "-",
	"*":   "*",
	"/":   "/",
	"%":   "%",
	"**":  "**",
	"×":   "*",
	"÷":   "/",
	"mod": " mod ",
}

// AppendOperator appends a binary operator. Keypad glyphs are stored in their ASCII form.
func (s *Session) AppendOperator(op string) error {
	text, ok := operatorText[op]
	if !ok {
		return fmt.Errorf("%w: operator %q", domain.ErrInvalidKey, op)
	}
	s.push(text)
	return nil
}

// AppendFunction appends a function for algebraic entry, e.g. "sin(".
// The "exp" key appends a scientific-notation exponent ("*10**") and "pow" appends "**".
func (s *Session) AppendFunction(name string) error {
	switch strings.ToLower(name) {
	case "exp":
		s.push("*10**")
		return nil
	case "pow", "xⁿ":
		s.push("**")
		return nil
	}
	canonical, ok := expr.Canonical(name)
	if !ok {
		return fmt.Errorf("%w: function %q", domain.ErrInvalidKey, name)
	}
	s.push(canonical + "(")
	return nil
}

// AppendConstant appends π or e.
func (s *Session) AppendConstant(name string) error {
	switch strings.ToLower(name) {
	case "π", "pi":
		s.push("π")
	case "e":
		s.push("e")
	default:
		return fmt.Errorf("%w: constant %q", domain.ErrInvalidKey, name)
	}
	return nil
}

// AppendParen appends "(" or ")".
func (s *Session) AppendParen(which string) error {
	if which != "(" && which != ")" {
		return fmt.Errorf("%w: paren %q", domain.ErrInvalidKey, which)
	}
	s.push(which)
	return nil
}

// AppendText appends a typed expression fragment. The fragment must only contain
// characters of the calculator alphabet; the expression itself is checked at evaluation.
func (s *Session) AppendText(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if _, err := expr.Tokenize(text); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidKey, err)
	}
	s.push(text)
	return nil
}

// Append dispatches an input event by kind.
func (s *Session) Append(kind domain.InputKind, value string) error {
	switch kind {
	case domain.InputDigit:
		return s.AppendDigit(value)
	case domain.InputDecimalPoint:
		s.AppendDecimalPoint()
		return nil
	case domain.InputOperator:
		return s.AppendOperator(value)
	case domain.InputFunction:
		return s.AppendFunction(value)
	case domain.InputParen:
		return s.AppendParen(value)
	case domain.InputConstant:
		return s.AppendConstant(value)
	}
	return fmt.Errorf("%w: input kind %q", domain.ErrInvalidKey, kind)
}

// -- Commands --

// Evaluate runs the buffer through the pipeline.
// On success the entry is recorded in history and the result seeds the buffer.
// On failure the buffer is cleared, history is untouched and the typed error is returned.
// An empty buffer yields domain.ErrEmptyInput and changes nothing.
func (s *Session) Evaluate() (Outcome, error) {
	start := time.Now()
	expression := s.buffer

	value, err := expr.Calculate(expression, s.mode)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyInput) {
			return Outcome{}, err
		}
		s.buffer = ""
		s.logger.Debug("evaluation failed", "expression", expression, "err", err)
		s.emitEval(domain.EventEvaluate, expression, "", "", err, start)
		return Outcome{}, err
	}

	result := format.Number(value)
	s.history.Push(domain.HistoryEntry{Expression: expression, Result: result})
	s.lastExpression = expression
	s.buffer = result

	s.logger.Debug("evaluated", "expression", expression, "result", result)
	s.emitEval(domain.EventEvaluate, expression, "", result, nil, start)
	return Outcome{Result: result, Expression: expression}, nil
}

// ApplyFunction runs a scientific key in immediate-execution mode: the whole buffer
// is evaluated (an empty buffer counts as 0), the function is applied and the
// formatted value replaces the buffer. History is not touched.
func (s *Session) ApplyFunction(name string) (string, error) {
	canonical, ok := expr.Canonical(name)
	if !ok {
		return "", fmt.Errorf("%w: function %q", domain.ErrInvalidKey, name)
	}

	start := time.Now()
	expression := s.buffer
	operand := 0.0
	if strings.TrimSpace(expression) != "" {
		v, err := expr.Calculate(expression, s.mode)
		if err != nil {
			return "", s.failApply(canonical, expression, err, start)
		}
		operand = v
	}

	v, err := expr.Apply(canonical, operand, s.mode)
	if err != nil {
		return "", s.failApply(canonical, expression, err, start)
	}

	s.buffer = format.Number(v)
	s.emitEval(domain.EventApply, expression, canonical, s.buffer, nil, start)
	return s.buffer, nil
}

func (s *Session) failApply(name, expression string, err error, start time.Time) error {
	s.buffer = ""
	s.logger.Debug("function failed", "function", name, "expression", expression, "err", err)
	s.emitEval(domain.EventApply, expression, name, "", err, start)
	return err
}

// ClearAll empties the buffer and the last expression. Memory and history are kept.
func (s *Session) ClearAll() {
	s.buffer = ""
	s.lastExpression = ""
}

// ClearEntry empties the buffer.
func (s *Session) ClearEntry() {
	s.buffer = ""
}

// Backspace removes the last character of the buffer. It is a no-op on an empty buffer.
func (s *Session) Backspace() {
	if s.buffer == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(s.buffer)
	s.buffer = s.buffer[:len(s.buffer)-size]
}

// ToggleAngleMode flips between degrees and radians. The buffer is not re-evaluated.
func (s *Session) ToggleAngleMode() domain.AngleMode {
	s.mode = s.mode.Toggle()
	return s.mode
}

// SetAngleMode sets the angle mode.
func (s *Session) SetAngleMode(mode domain.AngleMode) {
	s.mode = mode
}

// -- Memory --

// MemoryClear resets the register to 0.
func (s *Session) MemoryClear() {
	s.memory = 0
	s.emitMemory("clear", true)
}

// MemoryRecall loads the register into the buffer and returns the new buffer.
func (s *Session) MemoryRecall() string {
	s.buffer = format.Number(s.memory)
	s.emitMemory("recall", true)
	return s.buffer
}

// MemoryAdd adds the value of the buffer to the register and returns the memory display.
// A buffer that does not evaluate leaves the register unchanged.
func (s *Session) MemoryAdd() string {
	s.updateMemory("add", 1)
	return s.MemoryDisplay()
}

// MemorySubtract subtracts the value of the buffer from the register and returns the memory display.
// A buffer that does not evaluate leaves the register unchanged.
func (s *Session) MemorySubtract() string {
	s.updateMemory("subtract", -1)
	return s.MemoryDisplay()
}

func (s *Session) updateMemory(op string, sign float64) {
	v, err := expr.Calculate(s.buffer, s.mode)
	if err != nil {
		s.logger.Debug("memory update ignored", "op", op, "buffer", s.buffer, "err", err)
		s.emitMemory(op, false)
		return
	}
	next := s.memory + sign*v
	if math.IsNaN(next) || math.IsInf(next, 0) {
		s.logger.Debug("memory update ignored", "op", op, "err", domain.ErrOverflow)
		s.emitMemory(op, false)
		return
	}
	s.memory = next
	s.emitMemory(op, true)
}

// -- History --

// UseLastAnswer loads the most recent result into the buffer.
// It reports false, changing nothing, when the history is empty.
func (s *Session) UseLastAnswer() (string, bool) {
	last, ok := s.history.Latest()
	if !ok {
		return s.buffer, false
	}
	s.buffer = last.Result
	return s.buffer, true
}

// SelectHistory loads the expression of the entry at index (most recent first) into the buffer.
func (s *Session) SelectHistory(index int) (string, error) {
	entry, ok := s.history.At(index)
	if !ok {
		return "", fmt.Errorf("%w: %d of %d", domain.ErrHistoryIndex, index, s.history.Len())
	}
	s.buffer = entry.Expression
	return s.buffer, nil
}

// History returns the evaluations, most recent first.
func (s *Session) History() []domain.HistoryEntry {
	return s.history.Recent()
}

// -- Queries --

// Buffer returns the raw input buffer.
func (s *Session) Buffer() string { return s.buffer }

// Display returns the buffer, or "0" in the zero state.
func (s *Session) Display() string {
	if s.buffer == "" {
		return "0"
	}
	return s.buffer
}

// LastExpression returns the expression most recently evaluated.
func (s *Session) LastExpression() string { return s.lastExpression }

// Memory returns the register value.
func (s *Session) Memory() float64 { return s.memory }

// MemoryDisplay returns the register with display precision.
func (s *Session) MemoryDisplay() string { return format.Memory(s.memory) }

// AngleMode returns the current angle mode.
func (s *Session) AngleMode() domain.AngleMode { return s.mode }

// -- Hooks --

func (s *Session) emitEval(typ domain.EventType, expression, function, result string, err error, start time.Time) {
	if s.hooks.OnEvaluate == nil {
		return
	}
	s.hooks.OnEvaluate(&domain.EvalEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: typ},
		Expression: expression,
		Function:   function,
		Result:     result,
		Kind:       domain.KindOf(err),
		Duration:   time.Since(start),
	})
}

func (s *Session) emitMemory(op string, applied bool) {
	if s.hooks.OnMemory == nil {
		return
	}
	s.hooks.OnMemory(&domain.MemoryEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventMemory},
		Op:        op,
		Memory:    s.memory,
		Applied:   applied,
	})
}
