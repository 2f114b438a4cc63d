package parser

import (
	"github.com/yaklabco/dashgram/pkg/classify"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// startsWord reports whether tok begins a word part. Unterminated quoted
// strings count as word parts. Inside a backquoted substitution only an
// escaped backquote opening a nested one does; any other backquote closes.
func (s *session) startsWord(tok syntax.Token) bool {
	if tok.Kind == syntax.SymBacktick && s.scan.Mode() == classify.ModeBacktick {
		return s.opensBacktick(tok)
	}
	return s.sets.wordStart.Has(tok.Kind) || tok.Kind == syntax.SymUnterminated
}

// opensBacktick reports whether tok is a backquote carrying the escaping of
// a substitution nested inside the current backquoted one.
func (s *session) opensBacktick(tok syntax.Token) bool {
	if tok.Kind != syntax.SymBacktick || s.scan.Mode() != classify.ModeBacktick {
		return false
	}
	return tok.Len()-1 == classify.BacktickEscapes(s.scan.BacktickDepth()+1)
}

// word parses adjacent word parts. Two or more parts with nothing between
// them form a concatenation.
func (s *session) word(parent *syntax.Node, field string) *syntax.Node {
	first := s.wordPart(parent, field)
	if !s.adjacent() {
		return first
	}

	concat := syntax.Wrap(syntax.SymConcatenation, first)
	concat.Field, first.Field = field, ""
	for s.adjacent() {
		s.wordPart(concat, "")
	}
	return concat
}

// adjacent reports whether another word part follows with no extras
// between.
func (s *session) adjacent() bool {
	tok := s.peek(s.sets.wordStart)
	return len(s.pending) == 0 && s.startsWord(tok)
}

// wordPart parses the word part starting with the peeked token.
func (s *session) wordPart(parent *syntax.Node, field string) *syntax.Node {
	tok := s.la.tok

	switch tok.Kind {
	case syntax.SymDQuote, syntax.SymDollarBrace, syntax.SymDollarParen,
		syntax.SymBacktick, syntax.SymDollarDParen:
		if s.scan.Depth() >= s.maxDepth {
			errNode := s.open(parent, syntax.SymError, field)
			s.consume(errNode, "")
			return errNode
		}
	}

	switch tok.Kind {
	case syntax.SymDQuote:
		return s.doubleQuoted(parent, field)
	case syntax.SymDollar:
		return s.simpleExpansion(parent, field)
	case syntax.SymDollarBrace:
		return s.parameterExpansion(parent, field)
	case syntax.SymDollarParen, syntax.SymBacktick:
		return s.commandSubstitution(parent, field)
	case syntax.SymDollarDParen:
		return s.arithmeticExpansion(parent, field)
	default:
		return s.consume(parent, field)
	}
}

func (s *session) doubleQuoted(parent *syntax.Node, field string) *syntax.Node {
	node := s.open(parent, syntax.SymString, field)
	s.consume(node, "")
	s.enter(classify.ModeDouble)
	defer s.leave()

	for {
		tok := s.peek(s.sets.stringPart)
		switch {
		case tok.Kind == syntax.SymDQuote || tok.Kind == syntax.SymUnterminated:
			s.consume(node, "")
			return node
		case tok.Kind == syntax.SymEnd:
			s.missing(node, syntax.SymDQuote, "")
			return node
		case s.sets.expansionStart.Has(tok.Kind):
			s.wordPart(node, "")
		default:
			s.consume(node, "")
		}
	}
}

func (s *session) simpleExpansion(parent *syntax.Node, field string) *syntax.Node {
	node := s.open(parent, syntax.SymSimpleExpansion, field)
	s.consume(node, "")

	if s.sets.parameterName.Has(s.peek(s.sets.parameterName).Kind) {
		s.consume(node, "")
	} else {
		s.missing(node, syntax.SymVariableName, "")
	}
	return node
}

func (s *session) parameterExpansion(parent *syntax.Node, field string) *syntax.Node {
	node := s.open(parent, syntax.SymParameterExpansion, field)
	s.consume(node, "")
	s.enter(classify.ModeBrace)
	defer s.leave()

	closers := syntax.NewTokenSet(syntax.SymRBrace, syntax.SymUnterminated)

	tok := s.peek(s.sets.parameterStart.Union(closers))
	if tok.Kind == syntax.SymHash || tok.Kind == syntax.SymBang {
		s.consume(node, "")
		tok = s.peek(s.sets.parameterName.Union(closers))
	}
	if s.sets.parameterName.Has(tok.Kind) {
		s.consume(node, "name")
	} else {
		s.missing(node, syntax.SymVariableName, "name")
	}

	closing := closers
	tok = s.peek(closers.With(syntax.SymExpansionOp))
	switch {
	case tok.Kind == syntax.SymExpansionOp:
		s.consume(node, "operator")
		closing = s.sets.wordStart.Union(closers)
		for {
			tok = s.peek(closing)
			if tok.Kind == syntax.SymUnterminated || !s.startsWord(tok) {
				break
			}
			s.wordPart(node, "")
		}
	case !closers.Has(tok.Kind) && tok.Kind != syntax.SymEnd:
		errNode := s.open(node, syntax.SymError, "")
		for {
			tok = s.peek(closers)
			if tok.Kind == syntax.SymEnd || closers.Has(tok.Kind) {
				break
			}
			s.consume(errNode, "")
		}
	}

	if closers.Has(s.peek(closing).Kind) {
		s.consume(node, "")
	} else {
		s.missing(node, syntax.SymRBrace, "")
	}
	return node
}

func (s *session) commandSubstitution(parent *syntax.Node, field string) *syntax.Node {
	node := s.open(parent, syntax.SymCommandSubstitution, field)
	opener := s.consume(node, "")

	mode, closer := classify.ModeSubstitution, syntax.SymRParen
	if opener.Kind == syntax.SymBacktick {
		mode, closer = classify.ModeBacktick, syntax.SymBacktick
	}
	s.enter(mode)
	defer s.leave()

	// A substitution is a program of its own: enclosing closers do not
	// apply inside it.
	body := s.open(node, syntax.SymProgram, "body")
	saved := s.closers
	s.closers = nil
	s.statements(body, syntax.NewTokenSet(closer))
	s.closers = saved

	closers := syntax.NewTokenSet(closer, syntax.SymUnterminated)
	if closers.Has(s.peek(closers).Kind) {
		s.consume(node, "")
	} else {
		s.missing(node, closer, "")
	}
	return node
}

func (s *session) arithmeticExpansion(parent *syntax.Node, field string) *syntax.Node {
	node := s.open(parent, syntax.SymArithmeticExpansion, field)
	s.consume(node, "")
	s.enter(classify.ModeArithmetic)
	defer s.leave()

	depth := 0
	for {
		valid := s.sets.arithmeticPart
		if depth == 0 {
			valid = valid.With(syntax.SymDRParen)
		}

		tok := s.peek(valid)
		switch {
		case tok.Kind == syntax.SymDRParen || tok.Kind == syntax.SymUnterminated:
			s.consume(node, "")
			return node
		case tok.Kind == syntax.SymEnd:
			s.missing(node, syntax.SymDRParen, "")
			return node
		case tok.Kind == syntax.SymLParen:
			depth++
			s.consume(node, "")
		case tok.Kind == syntax.SymRParen:
			depth = max(depth-1, 0)
			s.consume(node, "")
		case s.sets.expansionStart.Has(tok.Kind):
			s.wordPart(node, "")
		default:
			s.consume(node, "")
		}
	}
}
