package parser

import (
	"github.com/yaklabco/dashgram/pkg/classify"
	"github.com/yaklabco/dashgram/pkg/scanner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// lookahead is the token peeked at pos for a valid-symbol set, with the
// scanner state before and after lexing it.
type lookahead struct {
	pos    int
	valid  syntax.TokenSet
	tok    syntax.Token
	before scanner.State
}

// peek returns the next non-extra token for the valid-symbol set. Extras in
// front of it are lexed into the pending list. Peeking again at the same
// position with another set rewinds the scanner and lexes afresh.
func (s *session) peek(valid syntax.TokenSet) syntax.Token {
	for {
		if s.la != nil {
			if s.la.pos == s.pos && s.la.valid == valid {
				return s.la.tok
			}
			s.settle()
		}

		before := s.scan.State()
		lexValid := valid
		if s.scan.Mode().AllowsExtras() {
			lexValid = lexValid.Union(s.sets.extras)
		}

		tok := s.lex(lexValid)
		if tok.Kind.IsExtra() {
			s.pending = append(s.pending, syntax.NewLeaf(tok.Kind, tok.StartOffset, tok.EndOffset))
			s.pos = tok.EndOffset
			continue
		}

		s.la = &lookahead{pos: s.pos, valid: valid, tok: tok, before: before}
		return tok
	}
}

// settle discards the cached lookahead and rewinds the scanner to the state
// at the current position.
func (s *session) settle() {
	if s.la == nil {
		return
	}
	s.scan.Restore(s.la.before)
	s.la = nil
}

// consume appends the peeked token to parent as a leaf. Pending extras are
// attached first.
func (s *session) consume(parent *syntax.Node, field string) *syntax.Node {
	tok := s.la.tok
	s.flush(parent)

	leaf := syntax.NewLeaf(tok.Kind, tok.StartOffset, tok.EndOffset)
	leaf.Field = field
	syntax.AppendChild(parent, leaf)

	s.pos = tok.EndOffset
	s.la = nil
	return leaf
}

// flush attaches pending extras to parent.
func (s *session) flush(parent *syntax.Node) {
	for _, extra := range s.pending {
		syntax.AppendChild(parent, extra)
	}
	s.pending = s.pending[:0]
}

// open starts a new child node of parent at the current position.
func (s *session) open(parent *syntax.Node, kind syntax.Symbol, field string) *syntax.Node {
	s.flush(parent)
	node := syntax.NewNode(kind, s.pos)
	node.Field = field
	syntax.AppendChild(parent, node)
	return node
}

// missing appends a zero-width stand-in for an expected token.
func (s *session) missing(parent *syntax.Node, kind syntax.Symbol, field string) *syntax.Node {
	s.settle()
	s.flush(parent)
	leaf := syntax.NewMissing(kind, s.pos)
	leaf.Field = field
	syntax.AppendChild(parent, leaf)
	return leaf
}

// expect consumes kind if it is next and inserts a missing leaf otherwise.
func (s *session) expect(parent *syntax.Node, kind syntax.Symbol, field string) *syntax.Node {
	if s.peek(syntax.NewTokenSet(kind)).Kind == kind {
		return s.consume(parent, field)
	}
	return s.missing(parent, kind, field)
}

// enter opens a lexical context. It fails when the nesting limit is reached.
func (s *session) enter(mode classify.Mode) bool {
	s.settle()
	if s.scan.Depth() >= s.maxDepth {
		return false
	}
	return s.scan.Enter(mode) == nil
}

// leave closes the innermost lexical context.
func (s *session) leave() {
	s.settle()
	s.scan.Leave()
}

// see extends the examined horizon over a token. Deciding where a token
// ends reads at most three bytes past it, as when "$((" is told apart from
// "$(". A backslash run after the token is read in full.
func (s *session) see(tok syntax.Token) {
	end := tok.EndOffset
	for end < len(s.src) && s.src[end] == '\\' {
		end++
	}
	s.horizon = max(s.horizon, end+3)
}

// lex produces the token at the current position: the scanner first, then
// refinements driven by the valid set, then the default tokenizer.
func (s *session) lex(valid syntax.TokenSet) syntax.Token {
	if tok, ok := s.scan.Scan(s.src, s.pos, valid); ok {
		s.see(tok)
		return tok
	}

	mode := s.scan.Mode()
	tok, ok := s.refine(valid, mode)
	if !ok {
		tok = s.adjust(classify.Lex(s.src, s.pos, mode), valid, mode)
	}
	s.see(tok)
	return tok
}

// refine recognizes tokens whose identity depends on the grammatical
// position rather than on the bytes alone.
func (s *session) refine(valid syntax.TokenSet, mode classify.Mode) (syntax.Token, bool) {
	src, pos := s.src, s.pos
	if pos >= len(src) {
		return syntax.Token{}, false
	}
	c := src[pos]

	leaf := func(kind syntax.Symbol, n int) (syntax.Token, bool) {
		return syntax.Token{Kind: kind, StartOffset: pos, EndOffset: pos + n}, true
	}

	if valid.Has(syntax.SymFileDescriptor) && mode.IsCommand() {
		if n := classify.FileDescriptor(src, pos); n > 0 {
			return leaf(syntax.SymFileDescriptor, n)
		}
	}

	if valid.Has(syntax.SymVariableName) {
		if valid.Has(syntax.SymWord) {
			if n := classify.AssignmentPrefix(src, pos); n > 0 && mode.IsCommand() {
				return leaf(syntax.SymVariableName, n)
			}
		} else if n := classify.VariableName(src, pos); n > 0 {
			return leaf(syntax.SymVariableName, n)
		}
	}

	if valid.Has(syntax.SymSpecialVariableName) {
		if mode == classify.ModeBrace && pos+1 < len(src) && src[pos+1] != '}' {
			if c == '#' && valid.Has(syntax.SymHash) {
				return leaf(syntax.SymHash, 1)
			}
			if c == '!' && valid.Has(syntax.SymBang) {
				return leaf(syntax.SymBang, 1)
			}
		}
		if classify.IsSpecialParameter(c) {
			n := 1
			if mode == classify.ModeBrace && classify.IsDigit(c) {
				for pos+n < len(src) && classify.IsDigit(src[pos+n]) {
					n++
				}
			}
			return leaf(syntax.SymSpecialVariableName, n)
		}
	}

	if valid.Has(syntax.SymExpansionOp) && mode == classify.ModeBrace {
		if n := classify.ExpansionOperator(src, pos); n > 0 {
			return leaf(syntax.SymExpansionOp, n)
		}
	}

	if valid.Has(syntax.SymEquals) && c == '=' {
		return leaf(syntax.SymEquals, 1)
	}

	return syntax.Token{}, false
}

// adjust reclassifies a default token for the valid set: reserved words
// where a keyword is acceptable and a lone ")" where "))" cannot close.
func (s *session) adjust(tok syntax.Token, valid syntax.TokenSet, mode classify.Mode) syntax.Token {
	switch tok.Kind {
	case syntax.SymWord:
		kw, ok := classify.ReservedWord(tok.Text(s.src))
		ended := classify.AtWordEnd(s.src, tok.EndOffset) ||
			mode == classify.ModeBacktick && classify.EscapedBacktick(s.src, tok.EndOffset) > 0
		if ok && valid.Has(kw) && ended {
			tok.Kind = kw
		}
	case syntax.SymDRParen:
		if !valid.Has(syntax.SymDRParen) {
			tok.Kind = syntax.SymRParen
			tok.EndOffset = tok.StartOffset + 1
		}
	}
	return tok
}
