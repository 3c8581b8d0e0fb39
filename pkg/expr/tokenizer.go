package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/abacus/pkg/domain"
)

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenNumber TokenKind = iota
	TokenOperator
	TokenFunction
	TokenLParen
	TokenRParen
	TokenConstant
)

var kindNames = map[TokenKind]string{
	TokenNumber:   "number",
	TokenOperator: "operator",
	TokenFunction: "function",
	TokenLParen:   "(",
	TokenRParen:   ")",
	TokenConstant: "constant",
}

func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexeme of the input.
// Operators carry their canonical text ("*" for "×", "%" for "mod"); numbers and
// constants carry their value.
type Token struct {
	Kind  TokenKind
	Text  string
	Value float64
	Pos   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// Constants are materialised into their value at tokenize time.
var constants = map[string]float64{
	"π":  math.Pi,
	"pi": math.Pi,
	"e":  math.E,
}

// wordOperators are operators spelled with letters.
var wordOperators = map[string]string{
	"mod": "%",
}

// glyphs are single-rune symbols from the keypad.
var glyphs = map[rune]Token{
	'×': {Kind: TokenOperator, Text: "*"},
	'÷': {Kind: TokenOperator, Text: "/"},
	'√': {Kind: TokenFunction, Text: "sqrt"},
	'π': {Kind: TokenConstant, Text: "π", Value: math.Pi},
}

// Tokenize converts input into a token sequence.
// It fails with domain.ErrEmptyInput for blank input and domain.ErrUnexpectedCharacter
// for anything outside the calculator alphabet.
func Tokenize(input string) ([]Token, error) {
	if strings.TrimSpace(input) == "" {
		return nil, domain.ErrEmptyInput
	}

	var tokens []Token
	pos := 0
	for pos < len(input) {
		c := input[pos]
		switch {
		case c == ' ' || c == '\t':
			pos++

		case isDigit(c) || c == '.':
			tok, next, err := scanNumber(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			pos = next

		case c == '*':
			// Longest match: "**" before "*".
			if pos+1 < len(input) && input[pos+1] == '*' {
				tokens = append(tokens, Token{Kind: TokenOperator, Text: "**", Pos: pos})
				pos += 2
				continue
			}
			tokens = append(tokens, Token{Kind: TokenOperator, Text: "*", Pos: pos})
			pos++

		case c == '+' || c == '-' || c == '/' || c == '%':
			tokens = append(tokens, Token{Kind: TokenOperator, Text: string(c), Pos: pos})
			pos++

		case c == '(':
			tokens = append(tokens, Token{Kind: TokenLParen, Text: "(", Pos: pos})
			pos++

		case c == ')':
			tokens = append(tokens, Token{Kind: TokenRParen, Text: ")", Pos: pos})
			pos++

		case isLetter(c):
			tok, next, err := scanWord(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			pos = next

		default:
			r, size := utf8.DecodeRuneInString(input[pos:])
			tok, ok := glyphs[r]
			if !ok {
				return nil, unexpected(r, pos)
			}
			tok.Pos = pos
			tokens = append(tokens, tok)
			pos += size
		}
	}
	return tokens, nil
}

// scanNumber reads digits with at most one decimal point.
func scanNumber(input string, start int) (Token, int, error) {
	pos := start
	seenDot := false
	digits := 0
	for pos < len(input) {
		c := input[pos]
		if isDigit(c) {
			digits++
			pos++
			continue
		}
		if c != '.' {
			break
		}
		if seenDot {
			return Token{}, 0, unexpected('.', pos)
		}
		seenDot = true
		pos++
	}
	if digits == 0 {
		return Token{}, 0, unexpected('.', start)
	}

	text := input[start:pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// Only reachable for literals beyond float64 range.
		return Token{}, 0, fmt.Errorf("%w: number %q at offset %d", domain.ErrOverflow, text, start)
	}
	return Token{Kind: TokenNumber, Text: text, Value: v, Pos: start}, pos, nil
}

// scanWord reads a run of letters and resolves it as a function, constant or word operator.
func scanWord(input string, start int) (Token, int, error) {
	pos := start
	for pos < len(input) && isLetter(input[pos]) {
		pos++
	}
	word := strings.ToLower(input[start:pos])

	if op, ok := wordOperators[word]; ok {
		return Token{Kind: TokenOperator, Text: op, Pos: start}, pos, nil
	}
	if v, ok := constants[word]; ok {
		return Token{Kind: TokenConstant, Text: word, Value: v, Pos: start}, pos, nil
	}
	if name, ok := canonicalFunction(word); ok {
		return Token{Kind: TokenFunction, Text: name, Pos: start}, pos, nil
	}
	return Token{}, 0, fmt.Errorf("%w: %q at offset %d", domain.ErrUnexpectedCharacter, input[start:pos], start)
}

func unexpected(r rune, pos int) error {
	return fmt.Errorf("%w: %q at offset %d", domain.ErrUnexpectedCharacter, r, pos)
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
