package parser

import (
	"github.com/yaklabco/dashgram/pkg/grammar"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// symbolSets holds the valid-symbol sets the engine passes to the lexer,
// derived once from the FIRST sets of the compiled grammar.
type symbolSets struct {
	extras         syntax.TokenSet
	statementStart syntax.TokenSet
	commandStart   syntax.TokenSet
	compoundStart  syntax.TokenSet
	terminators    syntax.TokenSet
	binary         syntax.TokenSet
	afterStatement syntax.TokenSet
	prefixStart    syntax.TokenSet
	redirectStart  syntax.TokenSet
	redirectOps    syntax.TokenSet
	heredocOps     syntax.TokenSet
	wordStart      syntax.TokenSet
	stringPart     syntax.TokenSet
	heredocPart    syntax.TokenSet
	arithmeticPart syntax.TokenSet
	parameterName  syntax.TokenSet
	parameterStart syntax.TokenSet
	caseTerminator syntax.TokenSet
	expansionStart syntax.TokenSet

	// commandKinds holds the concrete node kinds of the command supertype.
	commandKinds map[syntax.Symbol]bool
}

func newSymbolSets(table *grammar.Table) *symbolSets {
	// Unterminated tokens only come from the scanner when a closer is
	// expected; allowing them at a start position would loop at end of input.
	start := func(names ...string) syntax.TokenSet {
		return table.FirstOf(names...).Without(syntax.SymUnterminated)
	}

	sets := &symbolSets{
		extras:         syntax.NewTokenSet(syntax.SymWhitespace, syntax.SymLineContinuation, syntax.SymComment),
		statementStart: start("_statement"),
		commandStart:   start("command"),
		compoundStart:  start("compound_command"),
		terminators:    table.First("_terminator"),
		binary:         table.BinaryOperators(),
		prefixStart:    start("_prefix"),
		redirectStart:  start("redirect"),
		redirectOps:    table.First("_redirect_op"),
		heredocOps:     table.First("_heredoc_op"),
		wordStart:      start("_word"),
		stringPart:     table.FirstOf("_string_part", "_string_close"),
		heredocPart:    table.FirstOf("_heredoc_part", "unterminated", "heredoc_end"),
		arithmeticPart: table.FirstOf("_arithmetic_part", "unterminated"),
		parameterName:  table.First("_parameter_name"),
		parameterStart: table.FirstOf("_parameter_prefix", "_parameter_name"),
		caseTerminator: table.First("_case_terminator"),
	}

	sets.expansionStart = table.FirstOf(
		"simple_expansion", "parameter_expansion", "command_substitution", "arithmetic_expansion")
	sets.afterStatement = sets.binary.Union(sets.terminators).Union(sets.caseTerminator).
		With(syntax.SymRParen, syntax.SymBacktick)

	sets.commandKinds = make(map[syntax.Symbol]bool)
	for _, ref := range table.Catalog().Expand(grammar.TypeRef{Type: "command", Named: true}) {
		if sym, ok := syntax.LookupSymbol(ref.Type); ok {
			sets.commandKinds[sym] = true
		}
	}

	return sets
}
