package expr_test

import (
	"math"
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []expr.Token) []expr.TokenKind {
	out := make([]expr.TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func texts(tokens []expr.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"Arithmetic", "12+3.5*4", []string{"12", "+", "3.5", "*", "4"}},
		{"Power Longest Match", "2**3*4", []string{"2", "**", "3", "*", "4"}},
		{"Keypad Glyphs", "6×2÷3", []string{"6", "*", "2", "/", "3"}},
		{"Mod Word", "7 mod 3", []string{"7", "%", "3"}},
		{"Function Call", "sin(90)", []string{"sin", "(", "90", ")"}},
		{"Legacy Function", "sqrt9", []string{"sqrt", "9"}},
		{"Root Glyph", "√16", []string{"sqrt", "16"}},
		{"Leading Dot", ".5+5.", []string{".5", "+", "5."}},
		{"Scientific Entry", "2*10**3", []string{"2", "*", "10", "**", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := expr.Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, texts(tokens))
		})
	}
}

func TestTokenize_Constants(t *testing.T) {
	tokens, err := expr.Tokenize("π+e+pi")
	require.NoError(t, err)
	assert.Equal(t, []expr.TokenKind{
		expr.TokenConstant, expr.TokenOperator, expr.TokenConstant, expr.TokenOperator, expr.TokenConstant,
	}, kinds(tokens))
	assert.Equal(t, math.Pi, tokens[0].Value)
	assert.Equal(t, math.E, tokens[2].Value)
	assert.Equal(t, math.Pi, tokens[4].Value)
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := expr.Tokenize("1 + (2)")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 5, 6}, []int{tokens[0].Pos, tokens[1].Pos, tokens[2].Pos, tokens[3].Pos, tokens[4].Pos})
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"Empty", "", domain.ErrEmptyInput},
		{"Blank", "   ", domain.ErrEmptyInput},
		{"Unknown Symbol", "2#3", domain.ErrUnexpectedCharacter},
		{"Unknown Word", "foo(2)", domain.ErrUnexpectedCharacter},
		{"Exp Is Not A Function", "exp(1)", domain.ErrUnexpectedCharacter},
		{"Two Dots", "1.2.3", domain.ErrUnexpectedCharacter},
		{"Lone Dot", "1+.", domain.ErrUnexpectedCharacter},
		{"Code Injection", "__import__('os')", domain.ErrUnexpectedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expr.Tokenize(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
