/*
Package expr implements the calculator's expression pipeline.

Text from the input buffer is scanned by Tokenize, turned into a tree by Parse and
reduced to a number by Evaluate. Every stage reports failures with the sentinel errors
of package domain, so callers classify them with errors.Is or domain.KindOf.

	value, err := expr.Calculate("2+3*sin(90)", domain.Degrees)

Grammar, lowest to highest precedence:

	expr    := term (('+'|'-') term)*
	term    := factor (('*'|'/'|'%') factor)*
	factor  := unary ('**' factor)?
	unary   := ('-')? primary
	primary := Number | Constant | '(' expr ')' | Func '(' expr ')' | Func (Number|Constant)

Results are rounded to 10 decimal places, see Round.
*/
package expr
