package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/dashgram/pkg/syntax"
)

func TestSymbol_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sym      syntax.Symbol
		name     string
		terminal bool
		named    bool
		keyword  bool
	}{
		{syntax.SymWord, "word", true, true, false},
		{syntax.SymIf, "if", true, false, true},
		{syntax.SymPipe, "|", true, false, false},
		{syntax.SymPipeline, "pipeline", false, true, false},
		{syntax.SymError, "ERROR", false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.name, tt.sym.String())
			assert.Equal(t, tt.terminal, tt.sym.IsTerminal())
			assert.Equal(t, tt.named, tt.sym.IsNamed())
			assert.Equal(t, tt.keyword, tt.sym.IsKeyword())

			found, ok := syntax.LookupSymbol(tt.name)
			assert.True(t, ok)
			assert.Equal(t, tt.sym, found)
		})
	}
}

func TestSymbol_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for _, sym := range syntax.AllSymbols() {
		name := sym.String()
		assert.False(t, seen[name], "duplicate symbol name %q", name)
		seen[name] = true
	}
	assert.LessOrEqual(t, syntax.TerminalCount, 128)
}

func TestTokenSet(t *testing.T) {
	t.Parallel()

	set := syntax.NewTokenSet(syntax.SymWord, syntax.SymUnterminated, syntax.SymNewline)

	assert.True(t, set.Has(syntax.SymUnterminated))
	assert.False(t, set.Has(syntax.SymSemi))
	assert.False(t, set.Has(syntax.SymProgram))
	assert.Equal(t, 3, set.Len())

	set = set.Without(syntax.SymWord)
	assert.Equal(t, []syntax.Symbol{syntax.SymNewline, syntax.SymUnterminated}, set.Symbols())
	assert.Equal(t, `{newline, unterminated}`, set.String())

	union := set.Union(syntax.NewTokenSet(syntax.SymSemi))
	assert.Equal(t, 3, union.Len())
	assert.True(t, union.Intersect(syntax.NewTokenSet(syntax.SymProgram)).IsEmpty())
}
