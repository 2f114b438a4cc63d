package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/dashgram/pkg/classify"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

func lexAll(src string, mode classify.Mode) []syntax.Token {
	var tokens []syntax.Token
	pos := 0
	for pos < len(src) {
		tok := classify.Lex([]byte(src), pos, mode)
		tokens = append(tokens, tok)
		pos = tok.EndOffset
	}
	return tokens
}

func kinds(tokens []syntax.Token) []syntax.Symbol {
	out := make([]syntax.Symbol, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return out
}

func TestLex_Operators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want syntax.Symbol
	}{
		{"|", syntax.SymPipe},
		{"|&", syntax.SymPipeAmp},
		{"||", syntax.SymOrIf},
		{"&&", syntax.SymAndIf},
		{"&", syntax.SymAmp},
		{";", syntax.SymSemi},
		{";;", syntax.SymDSemi},
		{";&", syntax.SymSemiAnd},
		{";;&", syntax.SymDSemiAnd},
		{"<", syntax.SymLess},
		{">", syntax.SymGreat},
		{">>", syntax.SymDGreat},
		{"<>", syntax.SymLessGreat},
		{">&", syntax.SymGreatAnd},
		{"<&", syntax.SymLessAnd},
		{">|", syntax.SymClobber},
		{"<<", syntax.SymDLess},
		{"<<-", syntax.SymDLessDash},
		{"<<<", syntax.SymTLess},
		{"$(", syntax.SymDollarParen},
		{"$((", syntax.SymDollarDParen},
		{"${", syntax.SymDollarBrace},
		{"`", syntax.SymBacktick},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			tok := classify.Lex([]byte(tt.src), 0, classify.ModeNone)
			assert.Equal(t, tt.want, tok.Kind)
			assert.Equal(t, len(tt.src), tok.EndOffset)
		})
	}
}

func TestLex_CommandLine(t *testing.T) {
	t.Parallel()

	tokens := lexAll("echo a\\ b>out 2>&1;ls\n", classify.ModeNone)

	assert.True(t, syntax.ValidateTokens(tokens, 22))
	assert.Equal(t, []syntax.Symbol{
		syntax.SymWord, syntax.SymWhitespace, syntax.SymWord, syntax.SymGreat, syntax.SymWord,
		syntax.SymWhitespace, syntax.SymWord, syntax.SymGreatAnd, syntax.SymWord, syntax.SymSemi,
		syntax.SymWord, syntax.SymNewline,
	}, kinds(tokens))
}

func TestLex_WordStopsAtExpansion(t *testing.T) {
	t.Parallel()

	tokens := lexAll("a$b$ c", classify.ModeNone)

	assert.Equal(t, []syntax.Symbol{
		syntax.SymWord, syntax.SymDollar, syntax.SymWord, syntax.SymWhitespace, syntax.SymWord,
	}, kinds(tokens))
	assert.Equal(t, 4, tokens[2].EndOffset, "a lone $ stays literal")
}

func TestLex_LineContinuation(t *testing.T) {
	t.Parallel()

	tokens := lexAll("a \\\nb", classify.ModeNone)

	assert.Equal(t, []syntax.Symbol{
		syntax.SymWord, syntax.SymWhitespace, syntax.SymLineContinuation, syntax.SymWord,
	}, kinds(tokens))
}

func TestLex_Arithmetic(t *testing.T) {
	t.Parallel()

	tokens := lexAll("1 + (x*2))", classify.ModeArithmetic)

	assert.Equal(t, []syntax.Symbol{
		syntax.SymArithmeticContent, syntax.SymWhitespace, syntax.SymArithmeticContent,
		syntax.SymWhitespace, syntax.SymLParen, syntax.SymArithmeticContent, syntax.SymDRParen,
	}, kinds(tokens))
}

func TestLex_BraceKeepsBlanks(t *testing.T) {
	t.Parallel()

	tokens := lexAll("a b}", classify.ModeBrace)

	assert.Equal(t, []syntax.Symbol{syntax.SymWord, syntax.SymRBrace}, kinds(tokens))
	assert.Equal(t, 3, tokens[0].EndOffset)
}

func TestLex_DoubleQuoted(t *testing.T) {
	t.Parallel()

	tokens := lexAll(`a # $x"`, classify.ModeDouble)

	assert.Equal(t, []syntax.Symbol{
		syntax.SymStringContent, syntax.SymDollar, syntax.SymStringContent, syntax.SymDQuote,
	}, kinds(tokens))
}

func TestLex_End(t *testing.T) {
	t.Parallel()

	tok := classify.Lex([]byte("ab"), 2, classify.ModeNone)
	assert.Equal(t, syntax.SymEnd, tok.Kind)
	assert.True(t, tok.IsEmpty())
}

func TestLex_EscapedBacktick(t *testing.T) {
	t.Parallel()

	src := "a\\`b"

	tokens := lexAll(src, classify.ModeBacktick)
	assert.Equal(t, []syntax.Symbol{syntax.SymWord, syntax.SymWord, syntax.SymWord}, kinds(tokens))
	assert.Equal(t, 1, tokens[0].EndOffset, "an escaped backquote ends the word")
	assert.Equal(t, 3, tokens[1].EndOffset)

	tokens = lexAll(src, classify.ModeNone)
	assert.Equal(t, []syntax.Symbol{syntax.SymWord}, kinds(tokens))
}
