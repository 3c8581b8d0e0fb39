package format_test

import (
	"math"
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/expr"
	"github.com/aretw0/abacus/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"Integral", 14, "14"},
		{"Negative Integral", -5, "-5"},
		{"Fraction", 2.5, "2.5"},
		{"Float Noise", 0.1 + 0.2, "0.3"},
		{"Ten Decimals", 1.0 / 3, "0.3333333333"},
		{"Trailing Zeros Trimmed", 1.5000000000001, "1.5"},
		{"Negative Zero", math.Copysign(0, -1), "0"},
		{"Large", 1e21, "1000000000000000000000"},
		{"Tiny Rounds To Zero", 1e-12, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, format.Number(tt.in))
		})
	}
}

func TestMemory(t *testing.T) {
	assert.Equal(t, "0", format.Memory(0))
	assert.Equal(t, "3.142", format.Memory(math.Pi))
	assert.Equal(t, "0.5", format.Memory(0.5))
	assert.Equal(t, "1.235e+06", format.Memory(1234567))
	assert.Equal(t, "-42", format.Memory(-42))
}

// Formatting a value, reading it back and formatting again is stable.
func TestNumber_Idempotent(t *testing.T) {
	values := []float64{
		0, 1, -1, 0.3, 1.0 / 3, 2.0 / 3, math.Pi, -math.E, 123456.789,
		1e15 + 0.5, 7.257415615307994e306, 0.0000000001, -98765.4321,
	}

	for _, v := range values {
		first := format.Number(v)
		parsed, err := expr.Calculate(first, domain.Degrees)
		require.NoError(t, err, "re-evaluating %q", first)
		assert.Equal(t, first, format.Number(parsed), "value %v", v)
	}
}
