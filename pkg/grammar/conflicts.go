package grammar

import "fmt"

// ConflictKind classifies a declared ambiguity.
type ConflictKind uint8

// Conflict kinds.
const (
	// ConflictPrediction: two alternatives of one rule can start with the
	// same terminal. Compile verifies these against the computed FIRST sets.
	ConflictPrediction ConflictKind = iota
	// ConflictLexical: one byte sequence could be lexed as two different
	// terminals; the lexer resolves it from position or longest match.
	ConflictLexical
	// ConflictContext: the same terminal starts constructs of different
	// rules; the enclosing construct decides.
	ConflictContext
)

// String returns the kind name.
func (k ConflictKind) String() string {
	switch k {
	case ConflictLexical:
		return "lexical"
	case ConflictContext:
		return "context"
	default:
		return "prediction"
	}
}

// Conflict documents how one ambiguity of the grammar is resolved.
type Conflict struct {
	Kind ConflictKind

	// Rule is the rule the ambiguity arises in.
	Rule string

	// Alternatives are the competing alternative indexes of Rule.
	// Prediction conflicts only.
	Alternatives [2]int

	// Prefer is the winning alternative index. Prediction conflicts only.
	Prefer int

	// Lookahead, when set, is the terminal following the shared prefix
	// that selects Prefer; otherwise the other alternative wins.
	Lookahead string

	// Symbols names the competing symbols.
	Symbols []string

	// Reason is the resolution policy in one sentence.
	Reason string
}

// String renders the conflict for listings.
func (c Conflict) String() string {
	return fmt.Sprintf("%s conflict in %s %v: %s", c.Kind, c.Rule, c.Symbols, c.Reason)
}

// Conflicts returns the declared ambiguities of the Dash grammar.
func Conflicts() []Conflict {
	return []Conflict{
		{
			Kind:         ConflictPrediction,
			Rule:         "command",
			Alternatives: [2]int{0, 1},
			Prefer:       1,
			Lookahead:    "(",
			Symbols:      []string{"simple_command", "function_definition"},
			Reason:       "a word followed by ( starts a function definition; otherwise it names a simple command",
		},
		{
			Kind:         ConflictPrediction,
			Rule:         "_word",
			Alternatives: [2]int{0, 1},
			Prefer:       0,
			Symbols:      []string{"concatenation", "word"},
			Reason:       "longest match: word parts with no blank between them join into one concatenation",
		},
		{
			Kind:         ConflictPrediction,
			Rule:         "_statement_list_item",
			Alternatives: [2]int{0, 2},
			Prefer:       2,
			Symbols:      []string{"_statement", "heredoc_body"},
			Reason:       "after the newline ending a line with pending here-documents, their bodies come first",
		},
		{
			Kind:    ConflictContext,
			Rule:    "case_item",
			Symbols: []string{"case_item", "subshell"},
			Reason: "a ( after in, after a case terminator or at the start of an item line opens a pattern; " +
				"at statement start inside an item body it opens a subshell",
		},
		{
			Kind:    ConflictContext,
			Rule:    "simple_command",
			Symbols: []string{"if", "word"},
			Reason:  "reserved words are recognized only where a command or an expected keyword may start",
		},
		{
			Kind:    ConflictLexical,
			Rule:    "simple_command",
			Symbols: []string{"variable_assignment", "word"},
			Reason:  "NAME=value is an assignment only before the command name",
		},
		{
			Kind:    ConflictLexical,
			Rule:    "arithmetic_expansion",
			Symbols: []string{"$((", "$("},
			Reason:  "$(( always opens an arithmetic expansion; $( ( with a blank opens a subshell in a substitution",
		},
		{
			Kind:    ConflictLexical,
			Rule:    "arithmetic_expansion",
			Symbols: []string{"))", ")"},
			Reason:  ")) closes the expansion only when no parenthesis opened inside it is still open",
		},
		{
			Kind:    ConflictLexical,
			Rule:    "parameter_expansion",
			Symbols: []string{"#", "special_variable_name"},
			Reason:  "${#} is the parameter count; # followed by a name asks for its length",
		},
		{
			Kind:    ConflictLexical,
			Rule:    "program",
			Symbols: []string{"comment", "word"},
			Reason:  "# starts a comment only where a word may begin",
		},
		{
			Kind:    ConflictLexical,
			Rule:    "redirect",
			Symbols: []string{"file_descriptor", "word"},
			Reason:  "digits directly followed by < or > are a file descriptor",
		},
	}
}
