package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/dashgram/pkg/syntax"
)

// TreeOptions controls FormatTree.
type TreeOptions struct {
	// Anonymous includes anonymous tokens and extras.
	Anonymous bool

	// Width bounds each line; leaf previews are truncated to fit.
	Width int
}

// FormatTree renders tree as an indented outline with one node per line:
// kind, field, line:column range and, for leaves, a quoted text preview.
func (s *Styles) FormatTree(tree *syntax.Tree, opts TreeOptions) string {
	if tree == nil || tree.Root == nil {
		return ""
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultTermWidth
	}

	var builder strings.Builder
	var visit func(n *syntax.Node, depth int)
	visit = func(n *syntax.Node, depth int) {
		if !opts.Anonymous && !n.IsNamed() && !n.Missing && n.Kind != syntax.SymError {
			return
		}
		builder.WriteString(s.formatNodeLine(tree, n, depth, width))
		for child := n.FirstChild; child != nil; child = child.Next {
			visit(child, depth+1)
		}
	}
	visit(tree.Root, 0)

	return builder.String()
}

func (s *Styles) formatNodeLine(tree *syntax.Tree, n *syntax.Node, depth, width int) string {
	var line strings.Builder
	line.WriteString(strings.Repeat("  ", depth))

	if n.Field != "" {
		line.WriteString(s.Field.Render(n.Field + ": "))
	}

	switch {
	case n.Missing:
		line.WriteString(s.ErrorNode.Render("MISSING " + n.Kind.DisplayName()))
	case n.Kind == syntax.SymError:
		line.WriteString(s.ErrorNode.Render(n.Kind.String()))
	case n.IsNamed():
		line.WriteString(s.NodeKind.Render(n.Kind.String()))
	default:
		line.WriteString(s.Anonymous.Render(n.Kind.DisplayName()))
	}

	pos := tree.Position(n)
	line.WriteString(" " + s.Location.Render(fmt.Sprintf("[%d:%d-%d:%d]",
		pos.StartLine, pos.StartColumn, pos.EndLine, pos.EndColumn)))

	if n.IsLeaf() && n.Len() > 0 {
		used := 2*depth + len(n.Field) + len(n.Kind.String()) + 24
		preview := truncate(strconv.Quote(tree.Text(n)), max(width-used, minLastColumn))
		line.WriteString(" " + s.Dim.Render(preview))
	}

	return line.String() + "\n"
}
