package domain

import "errors"

// Tokenizer failures.
var (
	// ErrUnexpectedCharacter is returned when the input contains a character outside the calculator alphabet.
	ErrUnexpectedCharacter = errors.New("unexpected character")
	// ErrEmptyInput is returned when there is nothing to evaluate. Callers treat it as a no-op.
	ErrEmptyInput = errors.New("empty input")
)

// Parser failures.
var (
	ErrUnbalancedParens = errors.New("unbalanced parentheses")
	ErrUnexpectedToken  = errors.New("unexpected token")
	ErrEmptyExpression  = errors.New("empty expression")
)

// Evaluator failures.
var (
	ErrDivideByZero = errors.New("cannot divide by zero")
	ErrDomain       = errors.New("domain error")
	ErrOverflow     = errors.New("overflow")
)

// ErrInvalidKey is returned when a key or command is not part of the keypad.
var ErrInvalidKey = errors.New("invalid key")

// ErrHistoryIndex is returned when a history selection is out of range.
var ErrHistoryIndex = errors.New("history index out of range")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// ErrorKind is the stable, serialisable name of a failure.
type ErrorKind string

const (
	KindNone                ErrorKind = ""
	KindUnexpectedCharacter ErrorKind = "unexpected_character"
	KindEmptyInput          ErrorKind = "empty_input"
	KindUnbalancedParens    ErrorKind = "unbalanced_parens"
	KindUnexpectedToken     ErrorKind = "unexpected_token"
	KindEmptyExpression     ErrorKind = "empty_expression"
	KindDivideByZero        ErrorKind = "divide_by_zero"
	KindDomain              ErrorKind = "domain_error"
	KindOverflow            ErrorKind = "overflow"
	KindInvalidKey          ErrorKind = "invalid_key"
	KindHistoryIndex        ErrorKind = "history_index"
	KindUnknown             ErrorKind = "unknown"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrUnexpectedCharacter, KindUnexpectedCharacter},
	{ErrEmptyInput, KindEmptyInput},
	{ErrUnbalancedParens, KindUnbalancedParens},
	{ErrUnexpectedToken, KindUnexpectedToken},
	{ErrEmptyExpression, KindEmptyExpression},
	{ErrDivideByZero, KindDivideByZero},
	{ErrDomain, KindDomain},
	{ErrOverflow, KindOverflow},
	{ErrInvalidKey, KindInvalidKey},
	{ErrHistoryIndex, KindHistoryIndex},
}

// KindOf classifies err. It returns KindNone for a nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// Message is the text the display shows for err.
// Division by zero keeps its dedicated message, every other failure reads "Error".
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDivideByZero):
		return "Cannot divide by zero"
	default:
		return "Error"
	}
}

// IsEvaluation reports whether err was produced by the tokenizer, parser or evaluator.
func IsEvaluation(err error) bool {
	switch KindOf(err) {
	case KindNone, KindInvalidKey, KindHistoryIndex, KindUnknown:
		return false
	}
	return true
}
