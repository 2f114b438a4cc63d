// Package extract finds shell code embedded in Markdown documents. Fenced
// code blocks labeled as shell, or unlabeled blocks whose content looks like
// shell, become snippets that can be parsed on their own and whose offsets
// map back into the host document.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/dashgram/pkg/langdetect"
)

// Markdown flavors understood by the extractor.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Snippet is the body of one shell code block.
type Snippet struct {
	// Info is the fence info string, possibly empty.
	Info string

	// Line is the 1-based line of the first body line in the host document.
	Line int

	// Content holds the body with fence indentation removed.
	Content []byte

	segments []segment
}

// segment maps Content[local:local+length] to host bytes starting at host.
// Padding added for tab expansion has length zero in the host.
type segment struct {
	local   int
	host    int
	length  int
	padding int
}

// HostOffset translates an offset within Content to the host document.
// Offsets inside synthetic padding map to the start of their line.
func (s Snippet) HostOffset(local int) int {
	if len(s.segments) == 0 {
		return 0
	}
	idx := sort.Search(len(s.segments), func(i int) bool {
		return s.segments[i].local > local
	}) - 1
	if idx < 0 {
		idx = 0
	}
	seg := s.segments[idx]
	delta := local - seg.local - seg.padding
	if delta < 0 {
		return seg.host
	}
	return seg.host + min(delta, seg.length)
}

// Extractor pulls shell snippets out of Markdown.
type Extractor struct {
	md goldmark.Markdown
}

// New returns an extractor for flavor. Unknown flavors fall back to
// CommonMark.
func New(flavor string) *Extractor {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return &Extractor{md: goldmark.New(opts...)}
}

// Extract returns the shell snippets of content in document order.
func (e *Extractor) Extract(ctx context.Context, content []byte) ([]Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	doc := e.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	var snippets []Snippet
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		snippet := newSnippet(block, content)
		if len(snippet.Content) > 0 && langdetect.IsShellFence(snippet.Info, snippet.Content) {
			snippets = append(snippets, snippet)
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	return snippets, nil
}

func newSnippet(block *ast.FencedCodeBlock, content []byte) Snippet {
	var snippet Snippet
	if block.Info != nil {
		snippet.Info = string(block.Info.Value(content))
	}

	lines := block.Lines()
	var body bytes.Buffer
	for i := range lines.Len() {
		seg := lines.At(i)
		if i == 0 {
			snippet.Line = bytes.Count(content[:seg.Start], []byte("\n")) + 1
		}
		snippet.segments = append(snippet.segments, segment{
			local:   body.Len(),
			host:    seg.Start,
			length:  seg.Stop - seg.Start,
			padding: seg.Padding,
		})
		body.Write(seg.Value(content))
	}

	snippet.Content = body.Bytes()
	return snippet
}
