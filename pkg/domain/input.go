package domain

// InputKind classifies an append event from the presentation layer.
type InputKind string

const (
	InputDigit        InputKind = "digit"
	InputDecimalPoint InputKind = "decimal_point"
	InputOperator     InputKind = "operator"
	InputFunction     InputKind = "function"
	InputParen        InputKind = "paren"
	InputConstant     InputKind = "constant"
)
