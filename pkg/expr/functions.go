package expr

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// maxFactorial is the largest n whose factorial fits in a float64.
const maxFactorial = 170

type unaryFunc func(x float64, mode domain.AngleMode) (float64, error)

var functions = map[string]unaryFunc{
	"sin":   trig(math.Sin),
	"cos":   trig(math.Cos),
	"tan":   trig(math.Tan),
	"log":   logarithm(math.Log10),
	"ln":    logarithm(math.Log),
	"sqrt":  squareRoot,
	"sqr":   func(x float64, _ domain.AngleMode) (float64, error) { return x * x, nil },
	"abs":   func(x float64, _ domain.AngleMode) (float64, error) { return math.Abs(x), nil },
	"neg":   func(x float64, _ domain.AngleMode) (float64, error) { return -x, nil },
	"fact":  factorial,
	"recip": reciprocal,
}

var aliases = map[string]string{
	"factorial":  "fact",
	"reciprocal": "recip",
	"negate":     "neg",
	"square":     "sqr",
	"√":          "sqrt",
}

// canonicalFunction resolves a function name or alias.
func canonicalFunction(name string) (string, bool) {
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	_, ok := functions[name]
	return name, ok
}

// Canonical resolves a function name or alias, ignoring case.
func Canonical(name string) (string, bool) {
	return canonicalFunction(strings.ToLower(name))
}

// IsFunction reports whether name (or one of its aliases) is a known function.
func IsFunction(name string) bool {
	_, ok := canonicalFunction(name)
	return ok
}

// Functions returns the canonical function names, sorted.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply runs the named function on an already evaluated operand.
// The result is checked and rounded like the result of Evaluate.
func Apply(name string, x float64, mode domain.AngleMode) (float64, error) {
	canonical, ok := canonicalFunction(name)
	if !ok {
		return 0, fmt.Errorf("%w: unknown function %q", domain.ErrUnexpectedToken, name)
	}
	v, err := call(canonical, x, mode)
	if err != nil {
		return 0, err
	}
	return Round(v), nil
}

func call(name string, x float64, mode domain.AngleMode) (float64, error) {
	v, err := functions[name](x, mode)
	if err != nil {
		return 0, fmt.Errorf("%s(%g): %w", name, x, err)
	}
	if err := checkFinite(v); err != nil {
		return 0, fmt.Errorf("%s(%g): %w", name, x, err)
	}
	return v, nil
}

func trig(f func(float64) float64) unaryFunc {
	return func(x float64, mode domain.AngleMode) (float64, error) {
		if mode == domain.Degrees {
			x = x * math.Pi / 180
		}
		return f(x), nil
	}
}

func logarithm(f func(float64) float64) unaryFunc {
	return func(x float64, _ domain.AngleMode) (float64, error) {
		if x <= 0 {
			return 0, domain.ErrDomain
		}
		return f(x), nil
	}
}

func squareRoot(x float64, _ domain.AngleMode) (float64, error) {
	if x < 0 {
		return 0, domain.ErrDomain
	}
	return math.Sqrt(x), nil
}

func reciprocal(x float64, _ domain.AngleMode) (float64, error) {
	if x == 0 {
		return 0, domain.ErrDivideByZero
	}
	return 1 / x, nil
}

func factorial(x float64, _ domain.AngleMode) (float64, error) {
	if x < 0 || x != math.Trunc(x) {
		return 0, domain.ErrDomain
	}
	if x > maxFactorial {
		return 0, domain.ErrOverflow
	}
	result := 1.0
	for i := 2; i <= int(x); i++ {
		result *= float64(i)
	}
	return result, nil
}

func checkFinite(v float64) error {
	switch {
	case math.IsNaN(v):
		return domain.ErrDomain
	case math.IsInf(v, 0):
		return domain.ErrOverflow
	}
	return nil
}
