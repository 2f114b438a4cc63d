package classify

import "github.com/yaklabco/dashgram/pkg/syntax"

type operator struct {
	text string
	sym  syntax.Symbol
}

// Command-context operators, longest first so the first match wins.
//
//nolint:gochecknoglobals // Read-only operator table.
var operators = []operator{
	{";;&", syntax.SymDSemiAnd},
	{"<<<", syntax.SymTLess},
	{"<<-", syntax.SymDLessDash},
	{";;", syntax.SymDSemi},
	{";&", syntax.SymSemiAnd},
	{"&&", syntax.SymAndIf},
	{"||", syntax.SymOrIf},
	{"|&", syntax.SymPipeAmp},
	{"<<", syntax.SymDLess},
	{"<>", syntax.SymLessGreat},
	{"<&", syntax.SymLessAnd},
	{">>", syntax.SymDGreat},
	{">&", syntax.SymGreatAnd},
	{">|", syntax.SymClobber},
	{";", syntax.SymSemi},
	{"&", syntax.SymAmp},
	{"|", syntax.SymPipe},
	{"(", syntax.SymLParen},
	{")", syntax.SymRParen},
	{"<", syntax.SymLess},
	{">", syntax.SymGreat},
}

// Operator returns the longest command-context operator at pos.
func Operator(src []byte, pos int) (syntax.Symbol, int) {
	for _, op := range operators {
		if hasPrefixAt(src, pos, op.text) {
			return op.sym, len(op.text)
		}
	}
	return syntax.SymEnd, 0
}

// Lex is the default tokenizer. It returns the token starting at pos in the
// given mode, or a zero-width SymEnd token at end of input. Context-sensitive
// tokens (comments, quoted strings, here-document bodies) are the scanner's
// job; Lex only degrades gracefully when it meets them.
func Lex(src []byte, pos int, mode Mode) syntax.Token {
	if pos >= len(src) {
		return syntax.Token{Kind: syntax.SymEnd, StartOffset: pos, EndOffset: pos}
	}

	kind, end := lex(src, pos, mode)
	return syntax.Token{Kind: kind, StartOffset: pos, EndOffset: end}
}

func lex(src []byte, pos int, mode Mode) (syntax.Symbol, int) {
	c := src[pos]

	if c == '$' {
		if sym, n := ExpansionStart(src, pos, mode); n > 0 && sym != syntax.SymAnsiCString {
			return sym, pos + n
		}
	}
	if c == '`' {
		return syntax.SymBacktick, pos + 1
	}

	switch mode {
	case ModeDouble:
		if c == '"' {
			return syntax.SymDQuote, pos + 1
		}
		return syntax.SymStringContent, pos + max(StringContentLen(src, pos, mode), 1)
	case ModeHeredoc:
		return syntax.SymHeredocContent, pos + max(StringContentLen(src, pos, mode), 1)
	case ModeBrace:
		return lexBrace(src, pos)
	case ModeArithmetic:
		return lexArithmetic(src, pos)
	default:
		return lexCommand(src, pos, mode)
	}
}

func lexCommand(src []byte, pos int, mode Mode) (syntax.Symbol, int) {
	c := src[pos]
	switch {
	case IsBlank(c):
		return syntax.SymWhitespace, blankEnd(src, pos)
	case c == '\\' && pos+1 < len(src) && src[pos+1] == '\n':
		return syntax.SymLineContinuation, pos + 2
	case c == '\n':
		return syntax.SymNewline, pos + 1
	case c == '"':
		return syntax.SymDQuote, pos + 1
	case c == '\'':
		return syntax.SymWord, pos + 1
	}

	if sym, n := Operator(src, pos); n > 0 {
		return sym, pos + n
	}

	if mode != ModeBacktick {
		mode = ModeNone
	}
	return syntax.SymWord, WordEnd(src, pos, mode)
}

func lexBrace(src []byte, pos int) (syntax.Symbol, int) {
	switch src[pos] {
	case '}':
		return syntax.SymRBrace, pos + 1
	case '"':
		return syntax.SymDQuote, pos + 1
	case '\'':
		return syntax.SymWord, pos + 1
	}
	return syntax.SymWord, WordEnd(src, pos, ModeBrace)
}

func lexArithmetic(src []byte, pos int) (syntax.Symbol, int) {
	c := src[pos]
	switch {
	case IsBlank(c) || c == '\n':
		end := pos
		for end < len(src) && (IsBlank(src[end]) || src[end] == '\n') {
			end++
		}
		return syntax.SymWhitespace, end
	case hasPrefixAt(src, pos, "))"):
		return syntax.SymDRParen, pos + 2
	case c == '(':
		return syntax.SymLParen, pos + 1
	case c == ')':
		return syntax.SymRParen, pos + 1
	}

	end := pos
	for end < len(src) {
		c := src[end]
		if IsBlank(c) || c == '\n' || c == '(' || c == ')' || c == '`' {
			break
		}
		if c == '$' {
			if _, n := ExpansionStart(src, end, ModeArithmetic); n > 0 {
				break
			}
		}
		end++
	}
	return syntax.SymArithmeticContent, max(end, pos+1)
}

// WordEnd returns the end of the unquoted literal run starting at pos.
// Backslash escapes are kept inside the run; a backslash-newline ends it.
// In ModeBrace blanks are literal and '}' ends the run. In ModeBacktick an
// escaped backquote ends the run; one at pos is taken as literal text.
func WordEnd(src []byte, pos int, mode Mode) int {
	end := pos
	for end < len(src) {
		c := src[end]
		switch {
		case c == '\\' && mode == ModeBacktick && EscapedBacktick(src, end) > 0:
			if end > pos {
				return end
			}
			end += EscapedBacktick(src, end) + 1
			continue
		case c == '\\':
			if end+1 < len(src) && src[end+1] == '\n' && mode != ModeBrace {
				return max(end, pos+1)
			}
			end += 2
			continue
		case c == '"' || c == '\'' || c == '`':
			return max(end, pos+1)
		case c == '$':
			if _, n := ExpansionStart(src, end, mode); n > 0 {
				return max(end, pos+1)
			}
		case mode == ModeBrace:
			if c == '}' {
				return max(end, pos+1)
			}
		case IsMeta(c):
			return max(end, pos+1)
		}
		end++
	}
	return min(end, len(src))
}

// StringContentLen returns the length of literal text at pos inside a
// double-quoted string or an unquoted here-document: everything up to the
// closing quote, an expansion opener or a backtick. Backslash escapes are
// part of the content. In ModeHeredoc the run also stops after a newline so
// the next line can be checked against the delimiter.
func StringContentLen(src []byte, pos int, mode Mode) int {
	end := pos
	for end < len(src) {
		c := src[end]
		switch {
		case c == '\\':
			end += 2
			continue
		case c == '"' && mode == ModeDouble:
			return min(end, len(src)) - pos
		case c == '`':
			return end - pos
		case c == '$':
			if _, n := ExpansionStart(src, end, mode); n > 0 {
				return end - pos
			}
		case c == '\n' && mode == ModeHeredoc:
			return end + 1 - pos
		}
		end++
	}
	return min(end, len(src)) - pos
}

func blankEnd(src []byte, pos int) int {
	end := pos
	for end < len(src) && IsBlank(src[end]) {
		end++
	}
	return end
}
