package parser

import (
	"github.com/yaklabco/dashgram/pkg/classify"
	"github.com/yaklabco/dashgram/pkg/grammar"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// closerSet returns the union of every enclosing closer.
func (s *session) closerSet() syntax.TokenSet {
	var set syntax.TokenSet
	for _, closers := range s.closers {
		set = set.Union(closers)
	}
	return set
}

// statements parses statement list items into parent until end of input or
// a token that closes an enclosing construct.
func (s *session) statements(parent *syntax.Node, closers syntax.TokenSet) {
	s.closers = append(s.closers, closers)
	defer func() { s.closers = s.closers[:len(s.closers)-1] }()

	stop := s.closerSet()
	valid := s.sets.statementStart.Union(s.sets.terminators).Union(stop)

	for s.err == nil {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return
		}

		if s.heredocActive() {
			s.heredocs(parent)
			continue
		}

		tok := s.peek(valid)
		switch {
		case tok.Kind == syntax.SymEnd || s.closes(stop, tok):
			return
		case s.sets.terminators.Has(tok.Kind):
			s.terminator(parent)
		case s.startsStatement(tok.Kind):
			before := s.pos
			s.statement(parent, 0)
			if s.pos == before {
				s.recover(parent, stop)
			}
		default:
			s.recover(parent, stop)
		}
	}
}

// closes reports whether tok ends a construct whose closers are in stop.
func (s *session) closes(stop syntax.TokenSet, tok syntax.Token) bool {
	return stop.Has(tok.Kind) && !s.opensBacktick(tok)
}

// startsStatement reports whether kind begins a statement.
func (s *session) startsStatement(kind syntax.Symbol) bool {
	return s.sets.statementStart.Has(kind) || kind == syntax.SymUnterminated
}

// terminator consumes a statement terminator. At the top level the
// scanner state after it is recorded for incremental reparsing.
func (s *session) terminator(parent *syntax.Node) {
	leaf := s.consume(parent, "")
	if parent != s.root {
		return
	}
	if state, err := s.scan.Serialize(); err == nil {
		leaf.State = state
	}
}

// recover wraps unexpected tokens in an ERROR node, up to the next
// terminator or enclosing closer. At least one token is consumed.
func (s *session) recover(parent *syntax.Node, stop syntax.TokenSet) {
	valid := s.sets.terminators.Union(stop)
	if s.peek(valid).Kind == syntax.SymEnd {
		return
	}

	errNode := s.open(parent, syntax.SymError, "")
	s.consume(errNode, "")
	for {
		tok := s.peek(valid)
		if tok.Kind == syntax.SymEnd || valid.Has(tok.Kind) {
			return
		}
		s.consume(errNode, "")
	}
}

// heredocActive reports whether a here-document body starts at the current
// position.
func (s *session) heredocActive() bool {
	s.settle()
	return s.scan.HeredocActive()
}

// heredocs parses every here-document body that starts at the current
// position, each followed by its terminator line, as children of parent.
func (s *session) heredocs(parent *syntax.Node) {
	for s.heredocActive() {
		s.heredoc(parent, "body", false)
	}
}

// heredoc parses one body. In nested form the body and terminator are
// fields of a redirect.
func (s *session) heredoc(parent *syntax.Node, field string, nested bool) {
	bodyField, endField := "", ""
	if nested {
		bodyField, endField = field, "end"
	}

	// Bodies may open one level past the limit so that a marker declared
	// at the deepest level still gets its body.
	s.settle()
	if s.scan.Enter(classify.ModeHeredoc) != nil {
		return
	}

	body := s.open(parent, syntax.SymHeredocBody, bodyField)
	for {
		tok := s.peek(s.sets.heredocPart)
		switch {
		case tok.Kind == syntax.SymHeredocEnd:
			s.consume(parent, endField)
			s.leave()
			return
		case tok.Kind == syntax.SymUnterminated:
			s.consume(body, "")
			s.leave()
			return
		case tok.Kind == syntax.SymEnd:
			s.leave()
			return
		case s.sets.expansionStart.Has(tok.Kind):
			s.wordPart(body, "")
		default:
			s.consume(body, "")
		}
	}
}

// linebreaks consumes newlines, and the here-document bodies they start,
// where a construct allows line breaks before its next part.
func (s *session) linebreaks(parent *syntax.Node) {
	newline := syntax.NewTokenSet(syntax.SymNewline)
	for {
		if s.heredocActive() {
			s.heredocs(parent)
			continue
		}
		if s.peek(newline).Kind != syntax.SymNewline {
			return
		}
		s.consume(parent, "")
	}
}

// statement parses a statement by precedence climbing over the operator
// table: binary operators at or above minPrec extend the left operand.
func (s *session) statement(parent *syntax.Node, minPrec int) *syntax.Node {
	var left *syntax.Node

	tok := s.peek(s.sets.statementStart)
	if op, ok := s.table.Operator(tok.Kind); ok && op.Prefix {
		left = s.open(parent, op.Node, "")
		s.consume(left, "")
		s.operand(left, op.Level)
	} else {
		left = s.command(parent)
	}

	for s.err == nil {
		tok := s.peek(s.sets.afterStatement)
		op, ok := s.table.Operator(tok.Kind)
		if !ok || op.Prefix || op.Level < minPrec {
			return left
		}

		node := syntax.Wrap(op.Node, left)
		s.consume(node, "")
		s.linebreaks(node)

		next := op.Level
		if op.Assoc != grammar.AssocRight {
			next++
		}
		s.operand(node, next)
		left = node
	}
	return left
}

// operand parses the right-hand side of an operator, inserting a missing
// word when no statement follows.
func (s *session) operand(parent *syntax.Node, minPrec int) {
	tok := s.peek(s.sets.statementStart)
	if !s.startsStatement(tok.Kind) {
		s.missing(parent, syntax.SymWord, "")
		return
	}
	s.statement(parent, minPrec)
}
