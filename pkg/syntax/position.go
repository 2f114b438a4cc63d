package syntax

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Overlaps reports whether two ranges share at least one byte.
func (r SourceRange) Overlaps(other SourceRange) bool {
	return r.StartOffset < other.EndOffset && other.StartOffset < r.EndOffset
}

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// SourcePosition represents a range in terms of line/column positions.
type SourcePosition struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Start returns the start position.
func (sp SourcePosition) Start() Position {
	return Position{Line: sp.StartLine, Column: sp.StartColumn}
}

// End returns the end position.
func (sp SourcePosition) End() Position {
	return Position{Line: sp.EndLine, Column: sp.EndColumn}
}

// Range returns the byte range of the node.
func (n *Node) Range() SourceRange {
	return SourceRange{StartOffset: n.StartOffset, EndOffset: n.EndOffset}
}

// Len returns the length of the node in bytes.
func (n *Node) Len() int {
	return n.EndOffset - n.StartOffset
}

// Text returns the source text covered by the node.
func (n *Node) Text(content []byte) []byte {
	if n.StartOffset < 0 || n.EndOffset > len(content) || n.StartOffset > n.EndOffset {
		return nil
	}
	return content[n.StartOffset:n.EndOffset]
}

// Position returns the line/column range of the node within the tree's content.
func (t *Tree) Position(n *Node) SourcePosition {
	startLine, startCol := t.LineAt(n.StartOffset)
	endLine, endCol := t.LineAt(n.EndOffset)
	return SourcePosition{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}
