package edit

import (
	"fmt"
	"sort"
)

// ValidationError describes an edit that does not fit its buffer.
type ValidationError struct {
	Edit    Edit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.Offset, e.Edit.End(), e.Message)
}

// ConflictError describes overlapping edits in a batch.
type ConflictError struct {
	Edit1 Edit
	Edit2 Edit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.Offset, e.Edit1.End(),
		e.Edit2.Offset, e.Edit2.End())
}

// Validate checks that the edit lies within a buffer of contentLen bytes.
func (e Edit) Validate(contentLen int) error {
	switch {
	case e.Offset < 0:
		return &ValidationError{Edit: e, Message: "offset is negative"}
	case e.Removed < 0:
		return &ValidationError{Edit: e, Message: "removed length is negative"}
	case e.End() > contentLen:
		return &ValidationError{
			Edit:    e,
			Message: fmt.Sprintf("end offset %d exceeds content length %d", e.End(), contentLen),
		}
	}
	return nil
}

// ValidateAll checks every edit against contentLen and returns the first
// failure.
func ValidateAll(edits []Edit, contentLen int) error {
	for _, e := range edits {
		if err := e.Validate(contentLen); err != nil {
			return err
		}
	}
	return nil
}

// Sort orders edits by offset, then by end offset.
func Sort(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Offset != edits[j].Offset {
			return edits[i].Offset < edits[j].Offset
		}
		return edits[i].End() < edits[j].End()
	})
}

// DetectConflicts reports the first pair of overlapping edits in a sorted
// slice. Two insertions at the same offset also conflict, since their
// relative order would be ambiguous.
func DetectConflicts(edits []Edit) error {
	for i := 1; i < len(edits); i++ {
		prev, curr := edits[i-1], edits[i]
		if curr.Offset < prev.End() || (curr.Offset == prev.Offset && prev.Removed == 0 && curr.Removed == 0) {
			return &ConflictError{Edit1: prev, Edit2: curr}
		}
	}
	return nil
}

// Prepare validates, sorts and checks a batch for conflicts. The input is
// not modified.
func Prepare(edits []Edit, contentLen int) ([]Edit, error) {
	if len(edits) == 0 {
		return edits, nil
	}

	if err := ValidateAll(edits, contentLen); err != nil {
		return nil, err
	}

	result := make([]Edit, len(edits))
	copy(result, edits)
	Sort(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}
	return result, nil
}

// Combine folds a prepared batch into one edit spanning from the first
// changed byte to the last. content is the buffer the batch applies to.
func Combine(content []byte, edits []Edit) Edit {
	if len(edits) == 0 {
		return Edit{}
	}
	first, last := edits[0], edits[len(edits)-1]
	span := content[first.Offset:last.End()]
	replaced := ApplyAll(span, rebase(edits, first.Offset))
	return Edit{Offset: first.Offset, Removed: len(span), Inserted: string(replaced)}
}

func rebase(edits []Edit, base int) []Edit {
	out := make([]Edit, len(edits))
	for i, e := range edits {
		e.Offset -= base
		out[i] = e
	}
	return out
}
