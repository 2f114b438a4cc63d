// Package parser builds concrete syntax trees for Dash sources. A
// recursive-descent engine walks the compiled grammar table: predictions
// choose alternatives, FIRST-derived valid-symbol sets steer the scanner and
// the operator table drives precedence climbing for lists and pipelines.
// Reparse reuses the unchanged prefix of a previous tree after an edit.
package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/dashgram/pkg/grammar"
	"github.com/yaklabco/dashgram/pkg/scanner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// DefaultMaxDepth is the default limit on nested quoting and substitution
// contexts. Input nested deeper becomes ERROR nodes.
const DefaultMaxDepth = 32

// Parser turns shell source into syntax trees. A Parser holds no per-parse
// state and may be used from several goroutines at once.
type Parser struct {
	table      *grammar.Table
	sets       *symbolSets
	maxDepth   int
	maxNesting int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth limits nested quoting and substitution contexts. Values are
// clamped to what the scanner state can represent.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithTable replaces the compiled grammar.
func WithTable(table *grammar.Table) Option {
	return func(p *Parser) {
		p.table = table
	}
}

// New creates a parser for the Dash grammar.
func New(opts ...Option) *Parser {
	p := &Parser{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}

	if p.table == nil {
		p.table = grammar.Default()
	}
	// One level stays free for here-document bodies.
	p.maxDepth = min(max(p.maxDepth, 1), scanner.MaxDepth-1)
	p.maxNesting = p.maxDepth * 8
	p.sets = newSymbolSets(p.table)
	return p
}

// MaxDepth returns the effective context nesting limit.
func (p *Parser) MaxDepth() int {
	return p.maxDepth
}

// Table returns the compiled grammar the parser runs on.
func (p *Parser) Table() *grammar.Table {
	return p.table
}

// session is the mutable state of one parse.
type session struct {
	ctx   context.Context //nolint:containedctx // Scoped to one parse call.
	table *grammar.Table
	sets  *symbolSets

	src     []byte
	scan    *scanner.Scanner
	pos     int
	pending []*syntax.Node
	la      *lookahead
	horizon int
	closers []syntax.TokenSet

	nesting    int
	maxNesting int
	maxDepth   int

	root *syntax.Node
	err  error

	reuse  map[int]*syntax.Node
	reused int
}

func (p *Parser) newSession(ctx context.Context, content []byte) *session {
	return &session{
		ctx:        ctx,
		table:      p.table,
		sets:       p.sets,
		src:        content,
		scan:       scanner.New(),
		maxNesting: p.maxNesting,
		maxDepth:   p.maxDepth,
		root:       syntax.NewNode(syntax.SymProgram, 0),
	}
}

// run parses from the current position to the end of input.
func (s *session) run() error {
	s.statements(s.root, syntax.TokenSet{})
	if s.err != nil {
		return s.err
	}
	s.settle()
	s.flush(s.root)
	return nil
}

// Parse builds the syntax tree of content. Malformed input never fails:
// problems are recorded as ERROR, missing and unterminated nodes. An error
// is returned only when ctx is cancelled.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	src := copyContent(content)
	s := p.newSession(ctx, src)
	if err := s.run(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	return finish(path, src, s.root)
}

// finish wraps root in a tree after checking that its leaves cover the
// content exactly.
func finish(path string, content []byte, root *syntax.Node) (*syntax.Tree, error) {
	root.StartOffset = 0
	root.EndOffset = len(content)

	if !syntax.ValidateTokens(syntax.Tokens(root), len(content)) {
		return nil, errors.New("invalid token stream: leaves do not cover content")
	}
	return syntax.NewTree(path, content, root), nil
}

// copyContent copies content so the tree never aliases caller memory.
func copyContent(content []byte) []byte {
	if content == nil {
		return []byte{}
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
