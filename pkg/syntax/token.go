package syntax

import (
	"math/bits"
	"strings"
)

// Token is a classified span of bytes in the source.
// Tokens are immutable once emitted by the scanner or classifier.
type Token struct {
	// Kind classifies what this token represents.
	Kind Symbol

	// StartOffset is the byte index where this token begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where this token ends (exclusive).
	EndOffset int
}

// Text returns the source text of this token from the given content.
func (t Token) Text(content []byte) []byte {
	if t.StartOffset < 0 || t.EndOffset > len(content) || t.StartOffset > t.EndOffset {
		return nil
	}
	return content[t.StartOffset:t.EndOffset]
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.EndOffset - t.StartOffset
}

// IsEmpty returns true if this token has zero length.
func (t Token) IsEmpty() bool {
	return t.StartOffset == t.EndOffset
}

// ValidateTokens checks that a token slice is contiguous, non-overlapping and
// covers the full content range [0, contentLen).
func ValidateTokens(tokens []Token, contentLen int) bool {
	if len(tokens) == 0 {
		return contentLen == 0
	}

	if tokens[0].StartOffset != 0 {
		return false
	}

	if tokens[len(tokens)-1].EndOffset != contentLen {
		return false
	}

	for i := 1; i < len(tokens); i++ {
		if tokens[i].StartOffset != tokens[i-1].EndOffset {
			return false
		}
	}

	return true
}

// TokenSet is a set of terminal symbols, used as the valid-symbol set passed
// from the parsing engine to the scanner.
type TokenSet [2]uint64

// NewTokenSet returns a set holding the given terminals.
func NewTokenSet(syms ...Symbol) TokenSet {
	var set TokenSet
	return set.With(syms...)
}

// Has reports whether sym is in the set.
func (s TokenSet) Has(sym Symbol) bool {
	if !sym.IsTerminal() {
		return false
	}
	return s[sym/64]&(1<<(sym%64)) != 0
}

// With returns a copy of the set with the given terminals added.
// Nonterminals are ignored.
func (s TokenSet) With(syms ...Symbol) TokenSet {
	for _, sym := range syms {
		if sym.IsTerminal() {
			s[sym/64] |= 1 << (sym % 64)
		}
	}
	return s
}

// Without returns a copy of the set with the given terminals removed.
func (s TokenSet) Without(syms ...Symbol) TokenSet {
	for _, sym := range syms {
		if sym.IsTerminal() {
			s[sym/64] &^= 1 << (sym % 64)
		}
	}
	return s
}

// Union returns the union of two sets.
func (s TokenSet) Union(other TokenSet) TokenSet {
	return TokenSet{s[0] | other[0], s[1] | other[1]}
}

// Intersect returns the intersection of two sets.
func (s TokenSet) Intersect(other TokenSet) TokenSet {
	return TokenSet{s[0] & other[0], s[1] & other[1]}
}

// IsEmpty reports whether the set has no members.
func (s TokenSet) IsEmpty() bool {
	return s[0] == 0 && s[1] == 0
}

// Len returns the number of members.
func (s TokenSet) Len() int {
	return bits.OnesCount64(s[0]) + bits.OnesCount64(s[1])
}

// Symbols returns the members in ascending order.
func (s TokenSet) Symbols() []Symbol {
	out := make([]Symbol, 0, s.Len())
	for sym := range Symbol(TerminalCount) {
		if s.Has(sym) {
			out = append(out, sym)
		}
	}
	return out
}

// String renders the set as a brace-enclosed list of symbol names.
func (s TokenSet) String() string {
	names := make([]string, 0, s.Len())
	for _, sym := range s.Symbols() {
		names = append(names, sym.DisplayName())
	}
	return "{" + strings.Join(names, ", ") + "}"
}
