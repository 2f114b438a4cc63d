package classify

import "github.com/yaklabco/dashgram/pkg/syntax"

//nolint:gochecknoglobals // Read-only keyword table.
var reservedWords = map[string]syntax.Symbol{
	"if":       syntax.SymIf,
	"then":     syntax.SymThen,
	"elif":     syntax.SymElif,
	"else":     syntax.SymElse,
	"fi":       syntax.SymFi,
	"while":    syntax.SymWhile,
	"until":    syntax.SymUntil,
	"do":       syntax.SymDo,
	"done":     syntax.SymDone,
	"for":      syntax.SymFor,
	"in":       syntax.SymIn,
	"case":     syntax.SymCase,
	"esac":     syntax.SymEsac,
	"function": syntax.SymFunction,
	"{":        syntax.SymLBrace,
	"}":        syntax.SymRBrace,
	"!":        syntax.SymBang,
}

// ReservedWord returns the keyword symbol spelled by text.
// Whether the keyword is actually reserved depends on its position, which
// only the parser knows.
func ReservedWord(text []byte) (syntax.Symbol, bool) {
	sym, ok := reservedWords[string(text)]
	return sym, ok
}

// VariableName returns the length of the variable name starting at pos, or 0.
func VariableName(src []byte, pos int) int {
	if pos >= len(src) || !IsNameStart(src[pos]) {
		return 0
	}
	end := pos + 1
	for end < len(src) && IsNameChar(src[end]) {
		end++
	}
	return end - pos
}

// AssignmentPrefix returns the length of NAME when src[pos:] starts with
// NAME=, or 0.
func AssignmentPrefix(src []byte, pos int) int {
	n := VariableName(src, pos)
	if n == 0 || pos+n >= len(src) || src[pos+n] != '=' {
		return 0
	}
	return n
}

// FileDescriptor returns the length of a run of digits at pos that is
// immediately followed by a redirection operator, or 0.
func FileDescriptor(src []byte, pos int) int {
	end := pos
	for end < len(src) && IsDigit(src[end]) {
		end++
	}
	if end == pos || end >= len(src) {
		return 0
	}
	if src[end] != '<' && src[end] != '>' {
		return 0
	}
	return end - pos
}

// parameter-expansion operators, longest first.
//
//nolint:gochecknoglobals // Read-only operator table.
var expansionOperators = []string{
	":-", ":=", ":?", ":+", "##", "%%", "//",
	"-", "=", "?", "+", "#", "%", "/", ":",
}

// ExpansionOperator returns the length of the parameter-expansion operator
// at pos, or 0.
func ExpansionOperator(src []byte, pos int) int {
	for _, op := range expansionOperators {
		if hasPrefixAt(src, pos, op) {
			return len(op)
		}
	}
	return 0
}

// ExpansionStart classifies a '$' at pos. It returns the opener symbol and
// its length, or (SymEnd, 0) when the '$' is literal in mode.
// A "$'" opens an ANSI-C string and is reported as SymAnsiCString outside
// double quotes and here-documents.
func ExpansionStart(src []byte, pos int, mode Mode) (syntax.Symbol, int) {
	if pos >= len(src) || src[pos] != '$' || pos+1 >= len(src) {
		return syntax.SymEnd, 0
	}

	next := src[pos+1]
	switch {
	case next == '(' && pos+2 < len(src) && src[pos+2] == '(':
		return syntax.SymDollarDParen, 3
	case next == '(':
		return syntax.SymDollarParen, 2
	case next == '{':
		return syntax.SymDollarBrace, 2
	case next == '\'' && mode != ModeDouble && mode != ModeHeredoc:
		return syntax.SymAnsiCString, 2
	case IsNameStart(next) || IsSpecialParameter(next):
		return syntax.SymDollar, 1
	}
	return syntax.SymEnd, 0
}

// EscapedBacktick returns the length of the backslash run at pos when it is
// immediately followed by a backquote, or 0.
func EscapedBacktick(src []byte, pos int) int {
	end := pos
	for end < len(src) && src[end] == '\\' {
		end++
	}
	if end == pos || end >= len(src) || src[end] != '`' {
		return 0
	}
	return end - pos
}

// BacktickEscapes returns how many backslashes precede the backquote that
// delimits a backquoted substitution nested depth levels deep. Each level
// doubles the escaping of the one around it, so depth 1 uses a bare
// backquote, depth 2 uses one backslash and depth 3 uses three.
// It returns -1 for depths that cannot be spelled.
func BacktickEscapes(depth int) int {
	if depth < 1 || depth > maxBacktickDepth {
		return -1
	}
	return 1<<(depth-1) - 1
}

// maxBacktickDepth bounds BacktickEscapes so the shift cannot overflow.
const maxBacktickDepth = 30

func hasPrefixAt(src []byte, pos int, prefix string) bool {
	if pos+len(prefix) > len(src) {
		return false
	}
	return string(src[pos:pos+len(prefix)]) == prefix
}
