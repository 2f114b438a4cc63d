// Package syntax defines the concrete syntax tree for Dash shell sources:
// the symbol enumeration shared by the scanner, classifier and grammar,
// tokens, nodes and the Tree snapshot that ties them to their content.
package syntax

import "sort"

// Tree is a lossless view of a parsed shell document. Every byte of Content
// is covered by exactly one leaf under Root.
type Tree struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full source bytes.
	Content []byte

	// Lines contains metadata for each line in the file.
	Lines []LineInfo

	// Root is the program node.
	Root *Node

	// Reused counts the nodes carried over unchanged from a previous tree by
	// an incremental reparse: top-level children before the restart point
	// and commands taken over whole after it.
	Reused int

	// RestartOffset is the byte offset where scanning resumed during an
	// incremental reparse. It is zero for a full parse.
	RestartOffset int
}

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline, this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// NewTree creates a Tree for content with its line index built.
func NewTree(path string, content []byte, root *Node) *Tree {
	return &Tree{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
		Root:    root,
	}
}

// BuildLines constructs line metadata from content.
// It handles both LF and CRLF line endings.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineCount returns the number of lines in the document.
func (t *Tree) LineCount() int {
	return len(t.Lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes. Returns (0, 0) if the offset is out of range.
func (t *Tree) LineAt(offset int) (int, int) {
	if offset < 0 || len(t.Lines) == 0 {
		return 0, 0
	}

	if offset >= len(t.Content) {
		lastLine := t.Lines[len(t.Lines)-1]
		return len(t.Lines), offset - lastLine.StartOffset + 1
	}

	lineIdx := sort.Search(len(t.Lines), func(i int) bool {
		return t.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(t.Lines) {
		lineIdx = len(t.Lines) - 1
	}

	lineInfo := t.Lines[lineIdx]
	if offset < lineInfo.StartOffset {
		return 0, 0
	}

	return lineIdx + 1, offset - lineInfo.StartOffset + 1
}

// Offset converts 1-based line and column numbers to a byte offset.
func (t *Tree) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(t.Lines) || col < 1 {
		return 0, false
	}

	lineInfo := t.Lines[line-1]
	offset := lineInfo.StartOffset + col - 1
	if offset > lineInfo.EndOffset {
		return 0, false
	}

	return offset, true
}

// LineContent returns the content of a 1-based line number, excluding the newline.
func (t *Tree) LineContent(line int) []byte {
	if line < 1 || line > len(t.Lines) {
		return nil
	}
	lineInfo := t.Lines[line-1]
	return t.Content[lineInfo.StartOffset:lineInfo.NewlineStart]
}

// Text returns the source text of n.
func (t *Tree) Text(n *Node) string {
	return string(n.Text(t.Content))
}
