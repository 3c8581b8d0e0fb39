// Package format renders calculator values as display strings.
package format

import (
	"math"
	"strconv"

	"github.com/aretw0/abacus/pkg/expr"
)

// MemoryDigits is the number of significant digits of the memory indicator.
const MemoryDigits = 4

// Number renders v as the canonical result string.
// The value is rounded to expr.Decimals places, integral values have no fractional
// part and trailing zeros are trimmed. Exponent notation is never used, so the
// output always tokenizes back to the same value.
func Number(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(expr.Round(v), 'f', -1, 64)
}

// Memory renders the memory register with MemoryDigits significant digits.
// This is a display-only precision; the register itself keeps full precision.
func Memory(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', MemoryDigits, 64)
}
