package expr_test

import (
	"math"
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10/4", 2.5},
		{"0.1+0.2", 0.3},
		{"2**10", 1024},
		{"2**3**2", 512},
		{"7 mod 3", 1},
		{"-7%3", 2},
		{"7%-3", -2},
		{"6×7", 42},
		{"9÷3", 3},
		{"2*10**3", 2000},
		{"sqrt(16)+sqr(3)", 13},
		{"√16", 4},
		{"abs(-4.5)", 4.5},
		{"fact(5)", 120},
		{"recip(4)", 0.25},
		{"log(1000)", 3},
		{"ln(e)", 1},
		{"neg(3)+5", 2},
		{"-(2+3)", -5},
		{"1/3", 0.3333333333},
		{"2**-1", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := expr.Calculate(tt.input, domain.Degrees)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculate_AngleMode(t *testing.T) {
	deg, err := expr.Calculate("sin(90)", domain.Degrees)
	require.NoError(t, err)
	assert.Equal(t, 1.0, deg)

	rad, err := expr.Calculate("sin(90)", domain.Radians)
	require.NoError(t, err)
	assert.Equal(t, 0.8939966636, rad)

	cos, err := expr.Calculate("cos(90)", domain.Degrees)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cos, "binary noise must round away")
	assert.False(t, math.Signbit(cos), "negative zero must be normalised")

	tan, err := expr.Calculate("tan(45)", domain.Degrees)
	require.NoError(t, err)
	assert.Equal(t, 1.0, tan)

	piRad, err := expr.Calculate("cos(π)", domain.Radians)
	require.NoError(t, err)
	assert.Equal(t, -1.0, piRad)
}

func TestCalculate_Factorial(t *testing.T) {
	v, err := expr.Calculate("fact(170)", domain.Degrees)
	require.NoError(t, err)
	assert.False(t, math.IsInf(v, 0))
	assert.InEpsilon(t, 7.257415615307994e306, v, 1e-12)

	_, err = expr.Calculate("fact(171)", domain.Degrees)
	assert.ErrorIs(t, err, domain.ErrOverflow)

	_, err = expr.Calculate("fact(-1)", domain.Degrees)
	assert.ErrorIs(t, err, domain.ErrDomain)

	_, err = expr.Calculate("fact(2.5)", domain.Degrees)
	assert.ErrorIs(t, err, domain.ErrDomain)

	v, err = expr.Calculate("fact(0)", domain.Degrees)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"5/0", domain.ErrDivideByZero},
		{"5/(2-2)", domain.ErrDivideByZero},
		{"5%0", domain.ErrDivideByZero},
		{"recip(0)", domain.ErrDivideByZero},
		{"0**-1", domain.ErrDivideByZero},
		{"log(0)", domain.ErrDomain},
		{"ln(-1)", domain.ErrDomain},
		{"sqrt(-4)", domain.ErrDomain},
		{"(-8)**0.5", domain.ErrDomain},
		{"10**400", domain.ErrOverflow},
		{"fact(170)*fact(170)", domain.ErrOverflow},
		{"", domain.ErrEmptyInput},
		{"2+", domain.ErrUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := expr.Calculate(tt.input, domain.Degrees)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEvaluate_Tree(t *testing.T) {
	tree := &expr.BinaryOp{
		Op:    "*",
		Left:  &expr.Grouping{Inner: &expr.BinaryOp{Op: "+", Left: &expr.Literal{Value: 2}, Right: &expr.Literal{Value: 3}}},
		Right: &expr.UnaryFunc{Name: "sqr", Operand: &expr.Literal{Value: 2}},
	}
	v, err := expr.Evaluate(tree, domain.Radians)
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)
}

func TestApply(t *testing.T) {
	v, err := expr.Apply("sin", 30, domain.Degrees)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	v, err = expr.Apply("factorial", 6, domain.Degrees)
	require.NoError(t, err)
	assert.Equal(t, 720.0, v)

	_, err = expr.Apply("recip", 0, domain.Degrees)
	assert.ErrorIs(t, err, domain.ErrDivideByZero)

	_, err = expr.Apply("exp", 1, domain.Degrees)
	assert.ErrorIs(t, err, domain.ErrUnexpectedToken)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.3, expr.Round(0.1+0.2))
	assert.Equal(t, 0.1234567891, expr.Round(0.12345678912345))
	assert.Equal(t, 1e20, expr.Round(1e20))
	assert.False(t, math.Signbit(expr.Round(math.Copysign(0, -1))))
}

func TestFunctions(t *testing.T) {
	names := expr.Functions()
	assert.Contains(t, names, "sin")
	assert.Contains(t, names, "fact")
	assert.True(t, expr.IsFunction("reciprocal"))
	assert.False(t, expr.IsFunction("exp"))
}
