package syntax

import (
	"fmt"
	"sort"
)

// ProblemKind classifies a recoverable problem recorded in the tree.
type ProblemKind string

// Problem kinds.
const (
	ProblemUnexpected   ProblemKind = "unexpected"
	ProblemUnterminated ProblemKind = "unterminated"
	ProblemMissing      ProblemKind = "missing"
)

// Problem describes one error node, unterminated construct or inserted
// missing token.
type Problem struct {
	Kind    ProblemKind
	Node    *Node
	Message string
}

// Range returns the byte range the problem covers.
func (p Problem) Range() SourceRange {
	return p.Node.Range()
}

// Problems lists every problem under root in source order.
// Nested error nodes are reported once, at the outermost node.
func Problems(root *Node) []Problem {
	var problems []Problem

	//nolint:errcheck,revive // callback never fails
	Walk(root, func(n *Node) error {
		switch {
		case n.Kind == SymError:
			if n.Parent != nil && hasErrorAncestor(n.Parent) {
				return nil
			}
			problems = append(problems, Problem{
				Kind:    ProblemUnexpected,
				Node:    n,
				Message: unexpectedMessage(n),
			})
		case n.Kind == SymUnterminated:
			problems = append(problems, Problem{
				Kind:    ProblemUnterminated,
				Node:    n,
				Message: "unterminated " + unterminatedWhat(n),
			})
		case n.Missing:
			problems = append(problems, Problem{
				Kind:    ProblemMissing,
				Node:    n,
				Message: "missing " + n.Kind.DisplayName(),
			})
		}
		return nil
	})

	sort.SliceStable(problems, func(i, j int) bool {
		return problems[i].Node.StartOffset < problems[j].Node.StartOffset
	})

	return problems
}

// HasProblems reports whether the tree under root contains any problem.
func HasProblems(root *Node) bool {
	return FindFirst(root, func(n *Node) bool {
		return n.Kind == SymError || n.Kind == SymUnterminated || n.Missing
	}) != nil
}

func hasErrorAncestor(n *Node) bool {
	for node := n; node != nil; node = node.Parent {
		if node.Kind == SymError {
			return true
		}
	}
	return false
}

func unexpectedMessage(n *Node) string {
	for child := n.FirstChild; child != nil; child = child.Next {
		if !child.IsExtra() {
			return fmt.Sprintf("unexpected %s", child.Kind.DisplayName())
		}
	}
	return "unexpected input"
}

func unterminatedWhat(n *Node) string {
	if n.Parent == nil {
		return "input"
	}
	switch n.Parent.Kind {
	case SymString:
		return "double-quoted string"
	case SymCommandSubstitution:
		return "command substitution"
	case SymArithmeticExpansion:
		return "arithmetic expansion"
	case SymParameterExpansion:
		return "parameter expansion"
	case SymHeredocBody, SymRedirect:
		return "here-document"
	default:
		if n.Len() > 0 {
			return "quoted string"
		}
		return n.Parent.Kind.DisplayName()
	}
}
