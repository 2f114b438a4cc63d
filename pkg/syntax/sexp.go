package syntax

import (
	"io"
	"strings"
)

// SExpr renders the named structure under root as an S-expression, the
// customary debugging format for grammars of this family:
//
//	(program (simple_command name: (word) argument: (word)))
//
// Anonymous tokens are omitted except when inserted by error recovery.
func SExpr(root *Node) string {
	var sb strings.Builder
	writeSExpr(&sb, root, 0, false)
	return sb.String()
}

// SExprIndented renders like SExpr with one named node per line.
func SExprIndented(root *Node) string {
	var sb strings.Builder
	writeSExpr(&sb, root, 0, true)
	return sb.String()
}

// WriteSExpr writes the indented S-expression of root to w.
func WriteSExpr(w io.Writer, root *Node) error {
	_, err := io.WriteString(w, SExprIndented(root)+"\n")
	return err
}

func writeSExpr(sb *strings.Builder, n *Node, depth int, indent bool) {
	if n == nil {
		return
	}
	if n.Missing {
		sb.WriteString("(MISSING ")
		if n.IsNamed() {
			sb.WriteString(n.Kind.String())
		} else {
			sb.WriteString(`"` + escapeName(n.Kind.String()) + `"`)
		}
		sb.WriteString(")")
		return
	}

	sb.WriteString("(")
	sb.WriteString(n.Kind.String())

	for child := n.FirstChild; child != nil; child = child.Next {
		if !child.Missing && (!child.IsNamed() || (child.IsExtra() && child.Kind != SymComment)) {
			continue
		}
		if indent {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat("  ", depth+1))
		} else {
			sb.WriteString(" ")
		}
		if child.Field != "" {
			sb.WriteString(child.Field)
			sb.WriteString(": ")
		}
		writeSExpr(sb, child, depth+1, indent)
	}

	sb.WriteString(")")
}

func escapeName(name string) string {
	return strings.ReplaceAll(name, "\n", `\n`)
}
