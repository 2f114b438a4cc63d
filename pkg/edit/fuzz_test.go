package edit_test

import (
	"bytes"
	"testing"

	"github.com/yaklabco/dashgram/pkg/edit"
)

func FuzzBetween(f *testing.F) {
	f.Add([]byte(""), []byte(""))
	f.Add([]byte("echo hi"), []byte("echo hi"))
	f.Add([]byte("echo hi"), []byte("echo bye"))
	f.Add([]byte("cat <<EOF\nx\nEOF\n"), []byte("cat <<EOF\nxy\nEOF\n"))
	f.Add([]byte("aaaa"), []byte("aa"))

	f.Fuzz(func(t *testing.T, old, updated []byte) {
		e := edit.Between(old, updated)

		if err := e.Validate(len(old)); err != nil {
			t.Fatalf("Between produced an invalid edit: %v", err)
		}
		if got := e.Apply(old); !bytes.Equal(got, updated) {
			t.Fatalf("Apply(Between) = %q, want %q", got, updated)
		}
		if bytes.Equal(old, updated) != e.IsEmpty() {
			t.Errorf("IsEmpty() = %v for equal=%v", e.IsEmpty(), bytes.Equal(old, updated))
		}
	})
}
