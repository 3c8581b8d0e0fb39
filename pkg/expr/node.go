package expr

import (
	"strconv"
)

// Node is an expression tree node. The set of implementations is closed.
type Node interface {
	// String renders the node as a fully parenthesised expression.
	String() string
	node()
}

// Literal is a number or a materialised constant.
type Literal struct {
	Value float64
}

// BinaryOp applies one of + - * / % ** to two operands.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

// UnaryFunc applies a named function to one operand. Unary minus is UnaryFunc{Name: "neg"}.
type UnaryFunc struct {
	Name    string
	Operand Node
}

// Grouping is a parenthesised sub-expression.
type Grouping struct {
	Inner Node
}

func (*Literal) node()   {}
func (*BinaryOp) node()  {}
func (*UnaryFunc) node() {}
func (*Grouping) node()  {}

func (n *Literal) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (n *BinaryOp) String() string {
	return "(" + n.Left.String() + " " + n.Op + " " + n.Right.String() + ")"
}

func (n *UnaryFunc) String() string {
	return n.Name + "(" + n.Operand.String() + ")"
}

func (n *Grouping) String() string {
	return n.Inner.String()
}
