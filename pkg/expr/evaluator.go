package expr

import (
	"fmt"
	"math"
	"strconv"

	"github.com/aretw0/abacus/pkg/domain"
)

// Decimals is the number of decimal places every result is rounded to.
const Decimals = 10

// Evaluator reduces expression trees under a fixed angle mode.
type Evaluator struct {
	Mode domain.AngleMode
}

// Evaluate reduces node to a rounded, finite value.
func Evaluate(node Node, mode domain.AngleMode) (float64, error) {
	e := Evaluator{Mode: mode}
	v, err := e.eval(node)
	if err != nil {
		return 0, err
	}
	return Round(v), nil
}

// Calculate runs the whole pipeline on input.
func Calculate(input string, mode domain.AngleMode) (float64, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return 0, err
	}
	node, err := Parse(tokens)
	if err != nil {
		return 0, err
	}
	return Evaluate(node, mode)
}

func (e Evaluator) eval(node Node) (float64, error) {
	switch n := node.(type) {
	case *Literal:
		return n.Value, nil
	case *Grouping:
		return e.eval(n.Inner)
	case *UnaryFunc:
		x, err := e.eval(n.Operand)
		if err != nil {
			return 0, err
		}
		return call(n.Name, x, e.Mode)
	case *BinaryOp:
		left, err := e.eval(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := e.eval(n.Right)
		if err != nil {
			return 0, err
		}
		v, err := binary(n.Op, left, right)
		if err != nil {
			return 0, fmt.Errorf("%g %s %g: %w", left, n.Op, right, err)
		}
		return v, nil
	case nil:
		return 0, domain.ErrEmptyExpression
	}
	return 0, fmt.Errorf("%w: node %T", domain.ErrUnexpectedToken, node)
}

func binary(op string, a, b float64) (float64, error) {
	var v float64
	switch op {
	case "+":
		v = a + b
	case "-":
		v = a - b
	case "*":
		v = a * b
	case "/":
		if b == 0 {
			return 0, domain.ErrDivideByZero
		}
		v = a / b
	case "%":
		if b == 0 {
			return 0, domain.ErrDivideByZero
		}
		v = floorMod(a, b)
	case "**":
		if a == 0 && b < 0 {
			return 0, domain.ErrDivideByZero
		}
		if a < 0 && b != math.Trunc(b) {
			return 0, domain.ErrDomain
		}
		v = math.Pow(a, b)
	default:
		return 0, fmt.Errorf("%w: operator %q", domain.ErrUnexpectedToken, op)
	}
	return v, checkFinite(v)
}

// floorMod returns the remainder with the sign of the divisor.
func floorMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// Round rounds v to Decimals places using decimal (not binary) rounding,
// so 0.1+0.2 becomes exactly the double nearest to 0.3. Negative zero becomes zero.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', Decimals, 64), 64)
	if err != nil {
		return v
	}
	if r == 0 {
		return 0
	}
	return r
}
