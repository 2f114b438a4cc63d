package syntax

import (
	"strconv"
	"strings"
)

// Symbol identifies a grammar symbol: a terminal produced by the scanner or
// classifier, or a nonterminal produced by the grammar.
type Symbol uint16

// Terminal symbols. Terminals occupy the low values so that a TokenSet can
// address them as bits.
const (
	SymEnd Symbol = iota

	// Extras may appear between any two tokens.
	SymWhitespace
	SymLineContinuation
	SymComment

	// Separators and control operators.
	SymNewline
	SymSemi
	SymDSemi
	SymSemiAnd
	SymDSemiAnd
	SymAmp
	SymAndIf
	SymOrIf
	SymPipe
	SymPipeAmp
	SymLParen
	SymRParen

	// Redirection operators.
	SymLess
	SymGreat
	SymDGreat
	SymLessGreat
	SymGreatAnd
	SymLessAnd
	SymClobber
	SymDLess
	SymDLessDash
	SymTLess

	// Expansion and quoting delimiters.
	SymEquals
	SymDollar
	SymDollarBrace
	SymDollarParen
	SymDollarDParen
	SymDRParen
	SymBacktick
	SymDQuote
	SymExpansionOp
	SymHash

	// Reserved words.
	SymIf
	SymThen
	SymElif
	SymElse
	SymFi
	SymWhile
	SymUntil
	SymDo
	SymDone
	SymFor
	SymIn
	SymCase
	SymEsac
	SymFunction
	SymLBrace
	SymRBrace
	SymBang

	// Named leaves.
	SymWord
	SymVariableName
	SymSpecialVariableName
	SymFileDescriptor
	SymRawString
	SymAnsiCString
	SymStringContent
	SymHeredocStart
	SymHeredocContent
	SymHeredocEnd
	SymArithmeticContent
	SymUnterminated

	// Nonterminals.
	SymProgram
	SymList
	SymPipeline
	SymNegatedCommand
	SymSimpleCommand
	SymVariableAssignment
	SymRedirect
	SymHeredocBody
	SymIfStatement
	SymElifClause
	SymElseClause
	SymWhileStatement
	SymUntilStatement
	SymForStatement
	SymDoGroup
	SymCaseStatement
	SymCaseItem
	SymSubshell
	SymCompoundStatement
	SymFunctionDefinition
	SymString
	SymConcatenation
	SymSimpleExpansion
	SymParameterExpansion
	SymCommandSubstitution
	SymArithmeticExpansion
	SymError

	// Supertypes group nonterminals in the grammar and the node-type
	// catalog. They never appear as tree nodes.
	SymCommand
	SymCompoundCommand

	symCount
)

// symTerminalEnd is the first nonterminal.
const symTerminalEnd = SymProgram

type symbolMeta struct {
	name      string
	named     bool
	extra     bool
	keyword   bool
	supertype bool
}

//nolint:gochecknoglobals // Read-only symbol table.
var symbols = [symCount]symbolMeta{
	SymEnd:              {name: "end"},
	SymWhitespace:       {name: "whitespace", extra: true},
	SymLineContinuation: {name: "line_continuation", extra: true},
	SymComment:          {name: "comment", named: true, extra: true},

	SymNewline:  {name: "\n"},
	SymSemi:     {name: ";"},
	SymDSemi:    {name: ";;"},
	SymSemiAnd:  {name: ";&"},
	SymDSemiAnd: {name: ";;&"},
	SymAmp:      {name: "&"},
	SymAndIf:    {name: "&&"},
	SymOrIf:     {name: "||"},
	SymPipe:     {name: "|"},
	SymPipeAmp:  {name: "|&"},
	SymLParen:   {name: "("},
	SymRParen:   {name: ")"},

	SymLess:      {name: "<"},
	SymGreat:     {name: ">"},
	SymDGreat:    {name: ">>"},
	SymLessGreat: {name: "<>"},
	SymGreatAnd:  {name: ">&"},
	SymLessAnd:   {name: "<&"},
	SymClobber:   {name: ">|"},
	SymDLess:     {name: "<<"},
	SymDLessDash: {name: "<<-"},
	SymTLess:     {name: "<<<"},

	SymEquals:       {name: "="},
	SymDollar:       {name: "$"},
	SymDollarBrace:  {name: "${"},
	SymDollarParen:  {name: "$("},
	SymDollarDParen: {name: "$(("},
	SymDRParen:      {name: "))"},
	SymBacktick:     {name: "`"},
	SymDQuote:       {name: "\""},
	SymExpansionOp:  {name: "expansion_operator"},
	SymHash:         {name: "#"},

	SymIf:       {name: "if", keyword: true},
	SymThen:     {name: "then", keyword: true},
	SymElif:     {name: "elif", keyword: true},
	SymElse:     {name: "else", keyword: true},
	SymFi:       {name: "fi", keyword: true},
	SymWhile:    {name: "while", keyword: true},
	SymUntil:    {name: "until", keyword: true},
	SymDo:       {name: "do", keyword: true},
	SymDone:     {name: "done", keyword: true},
	SymFor:      {name: "for", keyword: true},
	SymIn:       {name: "in", keyword: true},
	SymCase:     {name: "case", keyword: true},
	SymEsac:     {name: "esac", keyword: true},
	SymFunction: {name: "function", keyword: true},
	SymLBrace:   {name: "{", keyword: true},
	SymRBrace:   {name: "}", keyword: true},
	SymBang:     {name: "!", keyword: true},

	SymWord:                {name: "word", named: true},
	SymVariableName:        {name: "variable_name", named: true},
	SymSpecialVariableName: {name: "special_variable_name", named: true},
	SymFileDescriptor:      {name: "file_descriptor", named: true},
	SymRawString:           {name: "raw_string", named: true},
	SymAnsiCString:         {name: "ansi_c_string", named: true},
	SymStringContent:       {name: "string_content", named: true},
	SymHeredocStart:        {name: "heredoc_start", named: true},
	SymHeredocContent:      {name: "heredoc_content", named: true},
	SymHeredocEnd:          {name: "heredoc_end", named: true},
	SymArithmeticContent:   {name: "arithmetic_content", named: true},
	SymUnterminated:        {name: "unterminated", named: true},

	SymProgram:             {name: "program", named: true},
	SymList:                {name: "list", named: true},
	SymPipeline:            {name: "pipeline", named: true},
	SymNegatedCommand:      {name: "negated_command", named: true},
	SymSimpleCommand:       {name: "simple_command", named: true},
	SymVariableAssignment:  {name: "variable_assignment", named: true},
	SymRedirect:            {name: "redirect", named: true},
	SymHeredocBody:         {name: "heredoc_body", named: true},
	SymIfStatement:         {name: "if_statement", named: true},
	SymElifClause:          {name: "elif_clause", named: true},
	SymElseClause:          {name: "else_clause", named: true},
	SymWhileStatement:      {name: "while_statement", named: true},
	SymUntilStatement:      {name: "until_statement", named: true},
	SymForStatement:        {name: "for_statement", named: true},
	SymDoGroup:             {name: "do_group", named: true},
	SymCaseStatement:       {name: "case_statement", named: true},
	SymCaseItem:            {name: "case_item", named: true},
	SymSubshell:            {name: "subshell", named: true},
	SymCompoundStatement:   {name: "compound_statement", named: true},
	SymFunctionDefinition:  {name: "function_definition", named: true},
	SymString:              {name: "string", named: true},
	SymConcatenation:       {name: "concatenation", named: true},
	SymSimpleExpansion:     {name: "simple_expansion", named: true},
	SymParameterExpansion:  {name: "parameter_expansion", named: true},
	SymCommandSubstitution: {name: "command_substitution", named: true},
	SymArithmeticExpansion: {name: "arithmetic_expansion", named: true},
	SymError:               {name: "ERROR", named: true},

	SymCommand:         {name: "command", named: true, supertype: true},
	SymCompoundCommand: {name: "compound_command", named: true, supertype: true},
}

//nolint:gochecknoglobals // Built once from the read-only symbol table.
var symbolsByName = func() map[string]Symbol {
	byName := make(map[string]Symbol, len(symbols))
	for i := range symbols {
		byName[symbols[i].name] = Symbol(i)
	}
	return byName
}()

// LookupSymbol returns the symbol with the given catalog name.
func LookupSymbol(name string) (Symbol, bool) {
	sym, ok := symbolsByName[name]
	return sym, ok
}

// AllSymbols returns every symbol in declaration order, terminals first.
func AllSymbols() []Symbol {
	all := make([]Symbol, 0, symCount)
	for i := range symCount {
		all = append(all, i)
	}
	return all
}

// TerminalCount is the number of terminal symbols.
const TerminalCount = int(symTerminalEnd)

// String returns the catalog name of the symbol.
func (s Symbol) String() string {
	if s >= symCount {
		return "Symbol(" + strconv.Itoa(int(s)) + ")"
	}
	return symbols[s].name
}

// IsTerminal reports whether s is produced by the scanner or classifier.
func (s Symbol) IsTerminal() bool { return s < symTerminalEnd }

// IsNamed reports whether nodes of this kind are named in the node-type catalog.
// Anonymous symbols are operators, delimiters and reserved words.
func (s Symbol) IsNamed() bool { return s < symCount && symbols[s].named }

// IsExtra reports whether s may appear between any two tokens.
func (s Symbol) IsExtra() bool { return s < symCount && symbols[s].extra }

// IsKeyword reports whether s is a reserved word.
func (s Symbol) IsKeyword() bool { return s < symCount && symbols[s].keyword }

// IsSupertype reports whether s only groups other nonterminals.
func (s Symbol) IsSupertype() bool { return s < symCount && symbols[s].supertype }

// DisplayName returns a human-readable name: the literal text for anonymous
// symbols and the catalog name with underscores replaced for named ones.
func (s Symbol) DisplayName() string {
	if s == SymNewline {
		return "newline"
	}
	if !s.IsNamed() {
		return `"` + s.String() + `"`
	}
	return strings.ReplaceAll(s.String(), "_", " ")
}
