package parser_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yaklabco/dashgram/pkg/edit"
	"github.com/yaklabco/dashgram/pkg/parser"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

func FuzzParse(f *testing.F) {
	for _, src := range corpus {
		f.Add([]byte(src))
	}
	f.Add([]byte(`echo "${x:-$(a 'b` + "\n"))
	f.Add([]byte("case x in (a|b) ;& esac fi done"))
	f.Add([]byte("cat <<-A <<B\n\tx\n\tA\ny\n"))

	p := parser.New()

	f.Fuzz(func(t *testing.T, src []byte) {
		tree, err := p.Parse(context.Background(), "fuzz.sh", src)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if got := leafText(tree); got != string(src) {
			t.Fatalf("leaves do not reproduce input: got %q want %q", got, src)
		}
		if !syntax.ValidateTokens(syntax.Tokens(tree.Root), len(src)) {
			t.Fatal("token stream has gaps or overlaps")
		}
	})
}

func FuzzReparse(f *testing.F) {
	f.Add([]byte("a | b && c\ncat <<A\nx $y\nA\n"), uint16(3), uint8(1), "\n")
	f.Add([]byte("for i in 1 2; do echo \"$i\"; done\n"), uint16(20), uint8(0), `"`)
	f.Add([]byte("echo a;b;c\n"), uint16(7), uint8(1), ";&")

	p := parser.New()

	f.Fuzz(func(t *testing.T, src []byte, offset uint16, removed uint8, inserted string) {
		off := int(offset) % (len(src) + 1)
		rm := min(int(removed), len(src)-off)
		e := edit.Replace(off, off+rm, inserted)

		old, err := p.Parse(context.Background(), "", src)
		if err != nil {
			t.Fatal(err)
		}
		content := e.Apply(src)

		full, err := p.Parse(context.Background(), "", content)
		if err != nil {
			t.Fatal(err)
		}
		incremental, err := p.Reparse(context.Background(), old, e, content)
		if err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(dump(full.Root), dump(incremental.Root)); diff != "" {
			t.Fatalf("reparse of %q with %v differs from full parse (-full +reparse):\n%s", src, e, diff)
		}
	})
}
