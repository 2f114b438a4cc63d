// Package scanner implements the context-sensitive part of Dash lexing:
// here-document bodies and delimiters, double-quoted string interiors,
// single-quoted and ANSI-C strings, comments and unterminated constructs.
// The parser consults it before falling back to the default tokenizer in
// package classify.
package scanner

import (
	"bytes"

	"github.com/yaklabco/dashgram/pkg/classify"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// Scanner holds the mutable lexical state of one parse session.
// A Scanner must not be shared between goroutines.
type Scanner struct {
	state State
}

// New returns a scanner in the initial state.
func New() *Scanner {
	return &Scanner{}
}

// NewFromState returns a scanner resuming from a previously captured state.
func NewFromState(state State) *Scanner {
	return &Scanner{state: state.Clone()}
}

// State returns a copy of the current state.
func (s *Scanner) State() State {
	return s.state.Clone()
}

// Restore replaces the current state with a copy of state.
func (s *Scanner) Restore(state State) {
	s.state = state.Clone()
}

// Serialize encodes the current state.
func (s *Scanner) Serialize() ([]byte, error) {
	return s.state.Serialize()
}

// Deserialize replaces the current state with one decoded from data.
// On error the scanner is left unchanged.
func (s *Scanner) Deserialize(data []byte) error {
	state, err := Deserialize(data)
	if err != nil {
		return err
	}
	s.state = state
	return nil
}

// Mode returns the innermost lexical context.
func (s *Scanner) Mode() classify.Mode {
	return s.state.Mode()
}

// Depth returns the number of open contexts.
func (s *Scanner) Depth() int {
	return s.state.Depth()
}

// Enter opens a nested context.
func (s *Scanner) Enter(mode classify.Mode) error {
	if len(s.state.Modes) >= MaxDepth {
		return ErrTooDeep
	}
	s.state.Modes = append(s.state.Modes, mode)
	return nil
}

// Leave closes the innermost context. Leaving the top level is a no-op.
func (s *Scanner) Leave() {
	if len(s.state.Modes) > 0 {
		s.state.Modes = s.state.Modes[:len(s.state.Modes)-1]
	}
}

// HeredocActive reports whether a here-document body starts at the current
// context depth, which is the case right after the newline ending the line
// that declared it.
func (s *Scanner) HeredocActive() bool {
	if s.Mode() == classify.ModeHeredoc {
		return false
	}
	for _, h := range s.state.Heredocs {
		if h.Active && h.Depth == s.Depth() {
			return true
		}
	}
	return false
}

// ActiveHeredoc returns the marker whose body is being read, if any.
func (s *Scanner) ActiveHeredoc() (Heredoc, bool) {
	idx := s.activeIndex()
	if idx < 0 {
		return Heredoc{}, false
	}
	return s.state.Heredocs[idx], true
}

// PendingHeredocs returns the number of markers declared at the current
// depth whose bodies have not started.
func (s *Scanner) PendingHeredocs() int {
	count := 0
	for _, h := range s.state.Heredocs {
		if !h.Active && h.Depth == s.Depth() {
			count++
		}
	}
	return count
}

// Scan tries to produce a context-sensitive token at pos. valid is the set
// of terminals the parser accepts here. It returns false when no
// context-sensitive rule applies and the default tokenizer should be used.
//
// Rules are tried in priority order: an active here-document body, the
// interior of a double-quoted string, end of input inside an open
// construct, a newline that starts pending here-document bodies, heredoc
// operators and delimiters, quoted strings and finally comments.
func (s *Scanner) Scan(src []byte, pos int, valid syntax.TokenSet) (syntax.Token, bool) {
	mode := s.Mode()

	if mode == classify.ModeHeredoc {
		return s.scanHeredocBody(src, pos, valid)
	}

	if mode == classify.ModeDouble && valid.Has(syntax.SymStringContent) {
		if n := classify.StringContentLen(src, pos, mode); n > 0 {
			return token(syntax.SymStringContent, pos, pos+n), true
		}
	}

	if pos >= len(src) {
		if valid.Has(syntax.SymUnterminated) {
			s.dropPending()
			return token(syntax.SymUnterminated, pos, pos), true
		}
		return syntax.Token{}, false
	}

	if !mode.IsCommand() && mode != classify.ModeBrace {
		return syntax.Token{}, false
	}

	if mode.IsCommand() {
		if tok, ok := s.scanCommandContext(src, pos, valid); ok {
			return tok, true
		}
	}

	if mode == classify.ModeBacktick && src[pos] == '\\' {
		if tok, ok := s.scanEscapedBacktick(src, pos, valid); ok {
			return tok, true
		}
	}

	return s.scanQuoted(src, pos, valid, mode)
}

// BacktickDepth returns how many backquoted substitutions are open.
func (s *Scanner) BacktickDepth() int {
	n := 0
	for _, m := range s.state.Modes {
		if m == classify.ModeBacktick {
			n++
		}
	}
	return n
}

// scanEscapedBacktick splits a backslash run that ends in a backquote inside
// a backquoted substitution. Leading pairs that only spell literal
// backslashes become a word; the remainder, when it has exactly the escaping
// of the current closer or of a nested opener, becomes a backquote token.
func (s *Scanner) scanEscapedBacktick(src []byte, pos int, valid syntax.TokenSet) (syntax.Token, bool) {
	run := classify.EscapedBacktick(src, pos)
	if run == 0 {
		return syntax.Token{}, false
	}

	depth := s.BacktickDepth()
	closer := classify.BacktickEscapes(depth)
	opener := classify.BacktickEscapes(depth + 1)
	if closer < 0 || opener < 0 {
		return syntax.Token{}, false
	}

	literal := run
	switch period := opener + 1; run % period {
	case closer:
		literal = run - closer
	case opener:
		literal = run - opener
	}

	switch {
	case literal > 0 && valid.Has(syntax.SymWord):
		return token(syntax.SymWord, pos, pos+literal), true
	case literal == 0 && valid.Has(syntax.SymBacktick):
		return token(syntax.SymBacktick, pos, pos+run+1), true
	}
	return syntax.Token{}, false
}

func (s *Scanner) scanCommandContext(src []byte, pos int, valid syntax.TokenSet) (syntax.Token, bool) {
	c := src[pos]

	if c == '\n' && valid.Has(syntax.SymNewline) && s.PendingHeredocs() > 0 {
		s.activate()
		return token(syntax.SymNewline, pos, pos+1), true
	}

	if c == '<' && (valid.Has(syntax.SymDLess) || valid.Has(syntax.SymDLessDash)) {
		switch sym, n := classify.Operator(src, pos); sym {
		case syntax.SymDLess:
			s.state.StripNext = false
			return token(sym, pos, pos+n), true
		case syntax.SymDLessDash:
			s.state.StripNext = true
			return token(sym, pos, pos+n), true
		}
	}

	if valid.Has(syntax.SymHeredocStart) && !classify.IsMeta(c) {
		end, delimiter, quoted := readDelimiter(src, pos)
		if end > pos {
			// A quoted empty delimiter ends the body at the first empty line.
			if (delimiter != "" || quoted) && len(s.state.Heredocs) < MaxHeredocs {
				s.state.Heredocs = append(s.state.Heredocs, Heredoc{
					Delimiter: delimiter,
					StripTabs: s.state.StripNext,
					Quoted:    quoted,
					Depth:     s.Depth(),
				})
			}
			s.state.StripNext = false
			return token(syntax.SymHeredocStart, pos, end), true
		}
	}

	if c == '#' && valid.Has(syntax.SymComment) && classify.AtWordStart(src, pos) {
		return token(syntax.SymComment, pos, classify.LineEnd(src, pos)), true
	}

	return syntax.Token{}, false
}

func (s *Scanner) scanQuoted(src []byte, pos int, valid syntax.TokenSet, mode classify.Mode) (syntax.Token, bool) {
	if src[pos] == '\'' && valid.Has(syntax.SymRawString) {
		idx := bytes.IndexByte(src[pos+1:], '\'')
		if idx < 0 {
			return token(syntax.SymUnterminated, pos, len(src)), true
		}
		return token(syntax.SymRawString, pos, pos+idx+2), true
	}

	if src[pos] == '$' && valid.Has(syntax.SymAnsiCString) {
		if sym, n := classify.ExpansionStart(src, pos, mode); sym == syntax.SymAnsiCString {
			end := pos + n
			for end < len(src) {
				switch src[end] {
				case '\\':
					end += 2
					continue
				case '\'':
					return token(syntax.SymAnsiCString, pos, end+1), true
				}
				end++
			}
			return token(syntax.SymUnterminated, pos, len(src)), true
		}
	}

	return syntax.Token{}, false
}

func (s *Scanner) scanHeredocBody(src []byte, pos int, valid syntax.TokenSet) (syntax.Token, bool) {
	idx := s.activeIndex()
	if idx < 0 {
		return syntax.Token{}, false
	}
	marker := s.state.Heredocs[idx]

	if pos >= len(src) {
		if valid.Has(syntax.SymUnterminated) {
			s.pop(idx)
			return token(syntax.SymUnterminated, pos, pos), true
		}
		return syntax.Token{}, false
	}

	if atLineStart(src, pos) && valid.Has(syntax.SymHeredocEnd) && isDelimiterLine(src, pos, marker) {
		s.pop(idx)
		return token(syntax.SymHeredocEnd, pos, lineEndTrimmed(src, pos)), true
	}

	if !valid.Has(syntax.SymHeredocContent) {
		return syntax.Token{}, false
	}

	end := pos
	for end < len(src) {
		if end > pos && atLineStart(src, end) && isDelimiterLine(src, end, marker) {
			break
		}
		if marker.Quoted {
			end = min(classify.LineEnd(src, end)+1, len(src))
			continue
		}
		n := classify.StringContentLen(src, end, classify.ModeHeredoc)
		if n == 0 {
			break
		}
		end = min(end+n, len(src))
		if end < len(src) && !atLineStart(src, end) {
			break
		}
	}

	if end == pos {
		return syntax.Token{}, false
	}
	return token(syntax.SymHeredocContent, pos, end), true
}

// activeIndex returns the marker whose body is being read in the current
// heredoc context.
func (s *Scanner) activeIndex() int {
	depth := s.Depth()
	if s.Mode() == classify.ModeHeredoc {
		depth--
	}
	for i, h := range s.state.Heredocs {
		if h.Active && h.Depth == depth {
			return i
		}
	}
	return -1
}

func (s *Scanner) activate() {
	for i := range s.state.Heredocs {
		if s.state.Heredocs[i].Depth == s.Depth() {
			s.state.Heredocs[i].Active = true
		}
	}
}

func (s *Scanner) pop(idx int) {
	s.state.Heredocs = append(s.state.Heredocs[:idx:idx], s.state.Heredocs[idx+1:]...)
}

// dropPending forgets markers at the current depth whose bodies can no
// longer start because input ended.
func (s *Scanner) dropPending() {
	kept := s.state.Heredocs[:0:0]
	for _, h := range s.state.Heredocs {
		if h.Active || h.Depth != s.Depth() {
			kept = append(kept, h)
		}
	}
	s.state.Heredocs = kept
}

func token(kind syntax.Symbol, start, end int) syntax.Token {
	return syntax.Token{Kind: kind, StartOffset: start, EndOffset: end}
}

func atLineStart(src []byte, pos int) bool {
	return pos == 0 || src[pos-1] == '\n'
}

// lineEndTrimmed returns the end of the line at pos, excluding "\r\n" or "\n".
func lineEndTrimmed(src []byte, pos int) int {
	end := classify.LineEnd(src, pos)
	if end > pos && src[end-1] == '\r' {
		end--
	}
	return end
}

func isDelimiterLine(src []byte, pos int, marker Heredoc) bool {
	line := src[pos:lineEndTrimmed(src, pos)]
	if marker.StripTabs {
		line = bytes.TrimLeft(line, "\t")
	}
	return string(line) == marker.Delimiter
}

// readDelimiter reads a here-document delimiter word at pos. It returns the
// end of the word, the delimiter with quoting removed, and whether any part
// of it was quoted.
func readDelimiter(src []byte, pos int) (int, string, bool) {
	var text []byte
	quoted := false
	end := pos

	for end < len(src) && !classify.IsMeta(src[end]) {
		switch c := src[end]; c {
		case '\'':
			quoted = true
			closing := bytes.IndexByte(src[end+1:], '\'')
			if closing < 0 {
				text = append(text, src[end+1:]...)
				return len(src), string(text), quoted
			}
			text = append(text, src[end+1:end+1+closing]...)
			end += closing + 2
		case '"':
			quoted = true
			end++
			for end < len(src) && src[end] != '"' {
				if src[end] == '\\' && end+1 < len(src) {
					end++
				}
				text = append(text, src[end])
				end++
			}
			end = min(end+1, len(src))
		case '\\':
			quoted = true
			if end+1 < len(src) {
				text = append(text, src[end+1])
			}
			end = min(end+2, len(src))
		default:
			text = append(text, c)
			end++
		}
	}

	return end, string(text), quoted
}
