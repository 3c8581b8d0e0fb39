package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/expr"
	"github.com/aretw0/abacus/pkg/format"
)

// TreeOverlay asks GenerateMermaid to annotate every subexpression with its value.
type TreeOverlay struct {
	Mode domain.AngleMode
}

// GenerateMermaid produces a Mermaid flowchart of an expression tree.
// It applies semantic styling:
// - Literal: ((Circle))
// - Function: [[Subroutine]]
// - Operator: [Rectangle]
// Groupings are transparent. With an overlay, each node shows its value and
// the nodes that fail to evaluate are styled as failed.
func GenerateMermaid(root expr.Node, overlay *TreeOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	w := &walker{sb: &sb, overlay: overlay}
	if root != nil {
		w.visit(root)
	}

	if overlay != nil && len(w.failed) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef failed fill:#ffebee,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
		for _, id := range w.failed {
			sb.WriteString(fmt.Sprintf("    class %s failed;\n", id))
		}
	}

	return sb.String()
}

type walker struct {
	sb      *strings.Builder
	overlay *TreeOverlay
	next    int
	failed  []string
}

// visit writes n and its children, returning the Mermaid ID of n.
func (w *walker) visit(n expr.Node) string {
	if g, ok := n.(*expr.Grouping); ok {
		return w.visit(g.Inner)
	}

	id := fmt.Sprintf("n%d", w.next)
	w.next++

	opener, closer := "[", "]"
	var label string
	var children []expr.Node

	switch n := n.(type) {
	case *expr.Literal:
		opener, closer = "((", "))"
		label = format.Number(n.Value)
	case *expr.UnaryFunc:
		opener, closer = "[[", "]]"
		label = n.Name
		children = []expr.Node{n.Operand}
	case *expr.BinaryOp:
		label = n.Op
		children = []expr.Node{n.Left, n.Right}
	default:
		label = n.String()
	}

	if w.overlay != nil {
		if _, isLiteral := n.(*expr.Literal); !isLiteral {
			v, err := expr.Evaluate(n, w.overlay.Mode)
			if err != nil {
				label += " <br/> ⚠️ " + string(domain.KindOf(err))
				w.failed = append(w.failed, id)
			} else {
				label += " <br/> = " + format.Number(v)
			}
		}
	}

	// Escape double quotes for the Mermaid label
	label = strings.ReplaceAll(label, "\"", "'")
	w.sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))

	for _, child := range children {
		childID := w.visit(child)
		w.sb.WriteString(fmt.Sprintf("    %s --> %s\n", id, childID))
	}
	return id
}
