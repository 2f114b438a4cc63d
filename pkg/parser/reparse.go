package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/dashgram/internal/logging"
	"github.com/yaklabco/dashgram/pkg/edit"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// ErrContentMismatch means the new content is not the old content with the
// edit applied.
var ErrContentMismatch = errors.New("content does not match edit")

// Reparse builds the tree of content, which must equal old.Content with e
// applied, reusing what it can of old.
//
// Top-level children up to the last statement terminator safely before the
// edit move into the new tree unchanged, and scanning restarts from the
// scanner state recorded on that terminator. Past that point, commands that
// end and finished looking ahead before the edit are reused whole when the
// parser reaches them again.
//
// Reparse consumes old: reused nodes are detached from it and old must not
// be used afterwards. A snapshot that cannot be restored aborts the reparse.
func (p *Parser) Reparse(ctx context.Context, old *syntax.Tree, e edit.Edit, content []byte) (*syntax.Tree, error) {
	if old == nil || old.Root == nil {
		return p.Parse(ctx, "", content)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}
	if err := e.Validate(len(old.Content)); err != nil {
		return nil, fmt.Errorf("reparse: %w", err)
	}
	if want := len(old.Content) + e.Delta(); len(content) != want {
		return nil, fmt.Errorf("reparse: %w: want %d bytes, got %d", ErrContentMismatch, want, len(content))
	}

	src := copyContent(content)
	s := p.newSession(ctx, src)

	moved := 0
	if last, state := restartPoint(old.Root, e.Offset); last != nil {
		if err := s.scan.Deserialize(state); err != nil {
			return nil, fmt.Errorf("reparse: restore scanner state: %w", err)
		}
		for child := old.Root.FirstChild; child != nil; {
			next := child.Next
			syntax.AppendChild(s.root, child)
			moved++
			if child == last {
				break
			}
			child = next
		}
		s.pos = last.EndOffset
	}
	restart := s.pos
	s.reuse = reusable(old.Root, s.sets, e.Offset)

	if err := s.run(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	tree, err := finish(old.Path, src, s.root)
	if err != nil {
		return nil, err
	}
	tree.Reused = moved + s.reused
	tree.RestartOffset = restart

	logging.FromContext(ctx).Debug("reparsed",
		logging.FieldPath, old.Path,
		logging.FieldOffset, restart,
		logging.FieldReused, tree.Reused)

	return tree, nil
}

// restartPoint finds the last top-level child to carry over, with the
// scanner state to resume from. The child is a terminator, or an extra
// directly following one. It returns nil when nothing can be kept.
func restartPoint(root *syntax.Node, offset int) (*syntax.Node, []byte) {
	var last *syntax.Node
	for child := root.FirstChild; child != nil && child.EndOffset <= offset; child = child.Next {
		if child.State != nil && settledBefore(child, offset) {
			last = child
		}
	}
	if last == nil {
		return nil, nil
	}

	state := last.State
	for last.Next != nil && last.Next.IsExtra() && last.Next.EndOffset < offset {
		last = last.Next
	}
	return last, state
}

// settledBefore reports whether a terminator keeps its meaning when the
// bytes from offset on change. ";" and "&" could grow into ";;&" or "&&".
func settledBefore(terminator *syntax.Node, offset int) bool {
	if terminator.Kind == syntax.SymNewline {
		return terminator.EndOffset <= offset
	}
	return terminator.EndOffset+2 <= offset
}

// reusable indexes by start offset the commands under root that the parser
// may take over unchanged: they end and stopped looking ahead before offset,
// and leave the scanner state as they found it.
func reusable(root *syntax.Node, sets *symbolSets, offset int) map[int]*syntax.Node {
	candidates := make(map[int]*syntax.Node)
	for _, n := range syntax.FindAll(root, func(n *syntax.Node) bool {
		return sets.commandKinds[n.Kind] && n.Lookahead > 0 && n.Lookahead <= offset && n.EndOffset <= offset
	}) {
		if _, taken := candidates[n.StartOffset]; taken || !selfContained(n) {
			continue
		}
		candidates[n.StartOffset] = n
	}
	return candidates
}

// selfContained reports whether n holds no construct that spans lines or
// changes the scanner state, and no recovered problem.
func selfContained(n *syntax.Node) bool {
	return syntax.FindFirst(n, func(c *syntax.Node) bool {
		if c.Missing {
			return true
		}
		switch c.Kind {
		case syntax.SymNewline, syntax.SymDLess, syntax.SymDLessDash, syntax.SymHeredocStart,
			syntax.SymHeredocBody, syntax.SymUnterminated, syntax.SymError:
			return true
		}
		return false
	}) == nil
}

// reuseAt takes over the reusable command starting at the current position,
// if there is one.
func (s *session) reuseAt(parent *syntax.Node) *syntax.Node {
	node, ok := s.reuse[s.pos]
	if !ok {
		return nil
	}
	delete(s.reuse, s.pos)

	s.settle()
	s.flush(parent)
	syntax.AppendChild(parent, node)
	s.pos = node.EndOffset
	s.horizon = max(s.horizon, node.Lookahead)
	s.reused++
	return node
}
