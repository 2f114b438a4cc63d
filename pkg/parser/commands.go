package parser

import (
	"github.com/yaklabco/dashgram/pkg/classify"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// predicted returns the nonterminal that starts the alternative of rule
// predicted for tok, or SymEnd when no alternative applies.
func (s *session) predicted(rule string, tok, lookahead syntax.Symbol) syntax.Symbol {
	alts := s.table.Predict(rule, tok, lookahead)
	if len(alts) == 0 {
		return syntax.SymEnd
	}
	r, _ := s.table.Rule(rule)
	kind, _ := syntax.LookupSymbol(r.Alternatives[alts[0]].Items[0].Symbol)
	return kind
}

// command parses one command and records how far the parser looked ahead
// while building it.
func (s *session) command(parent *syntax.Node) *syntax.Node {
	s.nesting++
	defer func() { s.nesting-- }()

	tok := s.peek(s.sets.commandStart)
	if node := s.reuseAt(parent); node != nil {
		return node
	}
	if s.nesting > s.maxNesting && tok.Kind != syntax.SymEnd {
		errNode := s.open(parent, syntax.SymError, "")
		s.consume(errNode, "")
		return errNode
	}

	lookahead := syntax.SymEnd
	if tok.Kind == syntax.SymWord && s.functionAhead(tok) {
		lookahead = syntax.SymLParen
	}

	var node *syntax.Node
	switch s.predicted("command", tok.Kind, lookahead) {
	case syntax.SymSimpleCommand:
		node = s.simpleCommand(parent)
	case syntax.SymFunctionDefinition:
		node = s.functionDefinition(parent)
	case syntax.SymCompoundCommand:
		node = s.compoundCommand(parent, "")
	default:
		return s.missing(parent, syntax.SymWord, "")
	}

	node.Lookahead = s.horizon
	return node
}

// functionAhead reports whether the word tok is followed by "(", which
// makes it the name of a function definition.
func (s *session) functionAhead(tok syntax.Token) bool {
	i := classify.SkipBlanks(s.src, tok.EndOffset)
	s.horizon = max(s.horizon, i+1)
	return i < len(s.src) && s.src[i] == '('
}

func (s *session) simpleCommand(parent *syntax.Node) *syntax.Node {
	node := s.open(parent, syntax.SymSimpleCommand, "")

	prefix := s.sets.prefixStart.Union(s.sets.wordStart)
	tok := s.peek(prefix)
	for {
		if tok.Kind == syntax.SymVariableName {
			s.assignment(node)
		} else if s.sets.redirectStart.Has(tok.Kind) {
			s.redirect(node, "redirect")
		} else {
			break
		}
		tok = s.peek(prefix)
	}

	suffix := s.sets.redirectStart.Union(s.sets.wordStart)
	if s.startsWord(s.peek(suffix)) {
		s.word(node, "name")
	}

	for {
		tok := s.peek(suffix)
		switch {
		case s.sets.redirectStart.Has(tok.Kind):
			s.redirect(node, "redirect")
		case s.startsWord(tok):
			s.word(node, "argument")
		default:
			return node
		}
	}
}

func (s *session) assignment(parent *syntax.Node) {
	node := s.open(parent, syntax.SymVariableAssignment, "assignment")
	s.consume(node, "name")
	s.expect(node, syntax.SymEquals, "")

	tok := s.peek(s.sets.wordStart)
	if len(s.pending) == 0 && s.startsWord(tok) {
		s.word(node, "value")
	}
}

func (s *session) redirect(parent *syntax.Node, field string) *syntax.Node {
	node := s.open(parent, syntax.SymRedirect, field)
	if s.la.tok.Kind == syntax.SymFileDescriptor {
		s.consume(node, "descriptor")
	}

	tok := s.peek(s.sets.redirectOps.Union(s.sets.heredocOps))
	switch {
	case s.sets.heredocOps.Has(tok.Kind):
		s.consume(node, "operator")
		s.heredocRedirect(node)
	case s.sets.redirectOps.Has(tok.Kind):
		s.consume(node, "operator")
		if s.startsWord(s.peek(s.sets.wordStart)) {
			s.word(node, "destination")
		} else {
			s.missing(node, syntax.SymWord, "destination")
		}
	default:
		s.missing(node, syntax.SymGreat, "operator")
	}
	return node
}

// heredocRedirect reads the delimiter. When this is the only pending
// here-document and its line ends right after the delimiter, the newline,
// body and terminator become part of the redirect.
func (s *session) heredocRedirect(node *syntax.Node) {
	if s.peek(syntax.NewTokenSet(syntax.SymHeredocStart)).Kind != syntax.SymHeredocStart {
		s.missing(node, syntax.SymHeredocStart, "delimiter")
		return
	}
	s.consume(node, "delimiter")

	if s.scan.PendingHeredocs() != 1 {
		return
	}

	switch s.peek(syntax.NewTokenSet(syntax.SymNewline, syntax.SymUnterminated)).Kind {
	case syntax.SymNewline:
		s.consume(node, "")
		s.heredoc(node, "body", true)
	case syntax.SymUnterminated:
		s.consume(node, "")
	}
}

func (s *session) redirects(parent *syntax.Node) {
	for s.sets.redirectStart.Has(s.peek(s.sets.redirectStart).Kind) {
		s.redirect(parent, "redirect")
	}
}

func (s *session) compoundCommand(parent *syntax.Node, field string) *syntax.Node {
	tok := s.peek(s.sets.compoundStart)

	var node *syntax.Node
	switch s.predicted("compound_command", tok.Kind, syntax.SymEnd) {
	case syntax.SymIfStatement:
		node = s.ifStatement(parent, field)
	case syntax.SymWhileStatement:
		node = s.loop(parent, syntax.SymWhileStatement, field)
	case syntax.SymUntilStatement:
		node = s.loop(parent, syntax.SymUntilStatement, field)
	case syntax.SymForStatement:
		node = s.forStatement(parent, field)
	case syntax.SymCaseStatement:
		node = s.caseStatement(parent, field)
	case syntax.SymSubshell:
		node = s.group(parent, syntax.SymSubshell, syntax.SymRParen, field)
	case syntax.SymCompoundStatement:
		node = s.group(parent, syntax.SymCompoundStatement, syntax.SymRBrace, field)
	default:
		return s.missing(parent, syntax.SymLBrace, field)
	}

	s.redirects(node)
	return node
}

func (s *session) ifStatement(parent *syntax.Node, field string) *syntax.Node {
	node := s.open(parent, syntax.SymIfStatement, field)
	s.consume(node, "")

	then := syntax.NewTokenSet(syntax.SymThen)
	branches := syntax.NewTokenSet(syntax.SymElif, syntax.SymElse, syntax.SymFi)

	s.statements(node, then)
	s.expect(node, syntax.SymThen, "")
	s.statements(node, branches)

	for s.err == nil {
		switch s.peek(branches).Kind {
		case syntax.SymElif:
			clause := s.open(node, syntax.SymElifClause, "")
			s.consume(clause, "")
			s.statements(clause, then)
			s.expect(clause, syntax.SymThen, "")
			s.statements(clause, branches)
			continue
		case syntax.SymElse:
			clause := s.open(node, syntax.SymElseClause, "")
			s.consume(clause, "")
			s.statements(clause, syntax.NewTokenSet(syntax.SymFi))
		}
		break
	}

	s.expect(node, syntax.SymFi, "")
	return node
}

// loop parses while and until statements.
func (s *session) loop(parent *syntax.Node, kind syntax.Symbol, field string) *syntax.Node {
	node := s.open(parent, kind, field)
	s.consume(node, "")
	s.statements(node, syntax.NewTokenSet(syntax.SymDo))
	s.doGroup(node)
	return node
}

func (s *session) doGroup(parent *syntax.Node) {
	group := s.open(parent, syntax.SymDoGroup, "body")
	s.expect(group, syntax.SymDo, "")
	s.statements(group, syntax.NewTokenSet(syntax.SymDone))
	s.expect(group, syntax.SymDone, "")
}

func (s *session) forStatement(parent *syntax.Node, field string) *syntax.Node {
	node := s.open(parent, syntax.SymForStatement, field)
	s.consume(node, "")

	if s.peek(syntax.NewTokenSet(syntax.SymVariableName)).Kind == syntax.SymVariableName {
		s.consume(node, "variable")
	} else {
		s.missing(node, syntax.SymVariableName, "variable")
	}

	s.linebreaks(node)
	if s.peek(syntax.NewTokenSet(syntax.SymIn)).Kind == syntax.SymIn {
		s.consume(node, "")
		for s.startsWord(s.peek(s.sets.wordStart)) {
			s.word(node, "value")
		}
	}

	if s.peek(syntax.NewTokenSet(syntax.SymSemi)).Kind == syntax.SymSemi {
		s.consume(node, "")
	}
	s.linebreaks(node)
	s.doGroup(node)
	return node
}

func (s *session) caseStatement(parent *syntax.Node, field string) *syntax.Node {
	node := s.open(parent, syntax.SymCaseStatement, field)
	s.consume(node, "")

	if s.startsWord(s.peek(s.sets.wordStart)) {
		s.word(node, "value")
	} else {
		s.missing(node, syntax.SymWord, "value")
	}
	s.linebreaks(node)
	s.expect(node, syntax.SymIn, "")

	esac := syntax.NewTokenSet(syntax.SymEsac)
	valid := s.sets.wordStart.With(syntax.SymEsac, syntax.SymLParen)
	for s.err == nil {
		s.linebreaks(node)
		tok := s.peek(valid)
		if tok.Kind == syntax.SymEnd || tok.Kind == syntax.SymEsac || s.closes(s.closerSet(), tok) {
			break
		}
		if tok.Kind == syntax.SymLParen || s.startsWord(tok) {
			s.caseItem(node)
			continue
		}
		s.recover(node, esac.Union(s.closerSet()))
	}

	s.expect(node, syntax.SymEsac, "")
	return node
}

func (s *session) caseItem(parent *syntax.Node) {
	item := s.open(parent, syntax.SymCaseItem, "")
	if s.la.tok.Kind == syntax.SymLParen {
		s.consume(item, "")
	}

	s.pattern(item)
	alternatives := syntax.NewTokenSet(syntax.SymPipe, syntax.SymRParen)
	for s.peek(alternatives).Kind == syntax.SymPipe {
		s.consume(item, "")
		s.pattern(item)
	}
	s.expect(item, syntax.SymRParen, "")

	closers := s.sets.caseTerminator.With(syntax.SymEsac)
	s.statements(item, closers)
	if s.sets.caseTerminator.Has(s.peek(closers).Kind) {
		s.consume(item, "termination")
	}
}

func (s *session) pattern(item *syntax.Node) {
	if s.startsWord(s.peek(s.sets.wordStart)) {
		s.word(item, "value")
		return
	}
	s.missing(item, syntax.SymWord, "value")
}

// group parses subshells and brace groups.
func (s *session) group(parent *syntax.Node, kind, closer syntax.Symbol, field string) *syntax.Node {
	node := s.open(parent, kind, field)
	s.consume(node, "")
	s.statements(node, syntax.NewTokenSet(closer))
	s.expect(node, closer, "")
	return node
}

func (s *session) functionDefinition(parent *syntax.Node) *syntax.Node {
	node := s.open(parent, syntax.SymFunctionDefinition, "")

	if s.la.tok.Kind == syntax.SymFunction {
		s.consume(node, "")
		if s.peek(syntax.NewTokenSet(syntax.SymWord)).Kind == syntax.SymWord {
			s.consume(node, "name")
		} else {
			s.missing(node, syntax.SymWord, "name")
		}
		if s.peek(syntax.NewTokenSet(syntax.SymLParen)).Kind == syntax.SymLParen {
			s.consume(node, "")
			s.expect(node, syntax.SymRParen, "")
		}
	} else {
		s.consume(node, "name")
		s.expect(node, syntax.SymLParen, "")
		s.expect(node, syntax.SymRParen, "")
	}

	s.linebreaks(node)
	if s.sets.compoundStart.Has(s.peek(s.sets.compoundStart).Kind) {
		s.compoundCommand(node, "body")
	} else {
		s.missing(node, syntax.SymLBrace, "body")
	}
	return node
}
