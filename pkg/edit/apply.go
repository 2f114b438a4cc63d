package edit

import "bytes"

// Apply returns a new buffer with the edit applied to content. The edit
// must be valid for content.
func (e Edit) Apply(content []byte) []byte {
	out := make([]byte, 0, len(content)+e.Delta())
	out = append(out, content[:e.Offset]...)
	out = append(out, e.Inserted...)
	return append(out, content[e.End():]...)
}

// ApplyAll applies a prepared batch of edits to content.
func ApplyAll(content []byte, edits []Edit) []byte {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.Offset])
		out.WriteString(e.Inserted)
		cursor = e.End()
	}
	out.Write(content[cursor:])

	return out.Bytes()
}
