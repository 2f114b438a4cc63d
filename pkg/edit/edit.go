// Package edit describes incremental mutations of a source buffer: a single
// replacement at a byte offset, its validation and application, batching of
// several edits and recovery of the edit that turns one buffer into another.
package edit

import "strconv"

// Edit replaces Removed bytes at Offset with Inserted.
type Edit struct {
	// Offset is the byte index where the edit begins.
	Offset int

	// Removed is the number of bytes deleted starting at Offset.
	Removed int

	// Inserted is the text written in place of the removed bytes.
	Inserted string
}

// Replace returns the edit that replaces bytes [start, end) with text.
func Replace(start, end int, text string) Edit {
	return Edit{Offset: start, Removed: end - start, Inserted: text}
}

// Insert returns the edit that inserts text at offset.
func Insert(offset int, text string) Edit {
	return Edit{Offset: offset, Inserted: text}
}

// Delete returns the edit that deletes bytes [start, end).
func Delete(start, end int) Edit {
	return Edit{Offset: start, Removed: end - start}
}

// End returns the exclusive end of the removed range in the old buffer.
func (e Edit) End() int {
	return e.Offset + e.Removed
}

// NewEnd returns the exclusive end of the inserted text in the new buffer.
func (e Edit) NewEnd() int {
	return e.Offset + len(e.Inserted)
}

// Delta returns the change in buffer length.
func (e Edit) Delta() int {
	return len(e.Inserted) - e.Removed
}

// IsEmpty reports whether the edit changes nothing.
func (e Edit) IsEmpty() bool {
	return e.Removed == 0 && e.Inserted == ""
}

// Map translates an offset in the old buffer to the new one. Offsets inside
// the removed range move to the end of the inserted text.
func (e Edit) Map(offset int) int {
	switch {
	case offset < e.Offset:
		return offset
	case offset < e.End():
		return e.NewEnd()
	default:
		return offset + e.Delta()
	}
}

func (e Edit) String() string {
	return "@" + strconv.Itoa(e.Offset) + " -" + strconv.Itoa(e.Removed) + " +" + strconv.Quote(e.Inserted)
}
