package expr

import (
	"fmt"

	"github.com/aretw0/abacus/pkg/domain"
)

// Parser builds an expression tree from tokens by recursive descent.
type Parser struct {
	tokens []Token
	pos    int
}

// Parse builds the expression tree for tokens.
func Parse(tokens []Token) (Node, error) {
	if len(tokens) == 0 {
		return nil, domain.ErrEmptyExpression
	}
	if err := checkBalance(tokens); err != nil {
		return nil, err
	}

	p := &Parser{tokens: tokens}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, unexpectedToken(tok)
	}
	return node, nil
}

// checkBalance rejects mismatched parentheses before descent so they are reported
// as such rather than as a stray token.
func checkBalance(tokens []Token) error {
	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unmatched ')' at offset %d", domain.ErrUnbalancedParens, tok.Pos)
			}
		}
	}
	if depth > 0 {
		return fmt.Errorf("%w: %d unclosed '('", domain.ErrUnbalancedParens, depth)
	}
	return nil
}

// expr := term (('+'|'-') term)*
func (p *Parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.matchOperator("+", "-") {
		op := p.advance().Text
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// term := factor (('*'|'/'|'%') factor)*
func (p *Parser) parseTerm() (Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.matchOperator("*", "/", "%") {
		op := p.advance().Text
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// factor := unary ('**' factor)?
func (p *Parser) parseFactor() (Node, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if !p.matchOperator("**") {
		return base, nil
	}
	p.advance()
	exponent, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &BinaryOp{Op: "**", Left: base, Right: exponent}, nil
}

// unary := ('-')? primary
func (p *Parser) parseUnary() (Node, error) {
	if p.matchOperator("-") {
		p.advance()
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &UnaryFunc{Name: "neg", Operand: operand}, nil
	}
	return p.parsePrimary()
}

// primary := Number | Constant | '(' expr ')' | Func '(' expr ')' | Func (Number|Constant)
func (p *Parser) parsePrimary() (Node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of input", domain.ErrUnexpectedToken)
	}

	switch tok.Kind {
	case TokenNumber, TokenConstant:
		p.advance()
		return &Literal{Value: tok.Value}, nil

	case TokenLParen:
		inner, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		return &Grouping{Inner: inner}, nil

	case TokenFunction:
		p.advance()
		next, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("%w: %s without argument", domain.ErrUnexpectedToken, tok.Text)
		}
		switch next.Kind {
		case TokenLParen:
			arg, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			return &UnaryFunc{Name: tok.Text, Operand: arg}, nil
		case TokenNumber, TokenConstant:
			// Legacy entry: "sqrt 9", "sin90".
			p.advance()
			return &UnaryFunc{Name: tok.Text, Operand: &Literal{Value: next.Value}}, nil
		}
		return nil, unexpectedToken(next)
	}

	return nil, unexpectedToken(tok)
}

// parseGroup consumes '(' expr ')'.
func (p *Parser) parseGroup() (Node, error) {
	open := p.advance()
	if next, ok := p.peek(); ok && next.Kind == TokenRParen {
		return nil, fmt.Errorf("%w: empty parentheses at offset %d", domain.ErrEmptyExpression, open.Pos)
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	closing, ok := p.peek()
	if !ok || closing.Kind != TokenRParen {
		if !ok {
			return nil, fmt.Errorf("%w: missing ')'", domain.ErrUnbalancedParens)
		}
		return nil, unexpectedToken(closing)
	}
	p.advance()
	return inner, nil
}

func (p *Parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *Parser) matchOperator(ops ...string) bool {
	tok, ok := p.peek()
	if !ok || tok.Kind != TokenOperator {
		return false
	}
	for _, op := range ops {
		if tok.Text == op {
			return true
		}
	}
	return false
}

func unexpectedToken(tok Token) error {
	return fmt.Errorf("%w: %s at offset %d", domain.ErrUnexpectedToken, tok, tok.Pos)
}
