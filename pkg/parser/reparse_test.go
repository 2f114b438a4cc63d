package parser_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dashgram/internal/logging"
	"github.com/yaklabco/dashgram/pkg/edit"
	"github.com/yaklabco/dashgram/pkg/parser"
	"github.com/yaklabco/dashgram/pkg/scanner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

func reparse(t *testing.T, src string, e edit.Edit) (*syntax.Tree, *syntax.Tree) {
	t.Helper()

	p := parser.New()
	old, err := p.Parse(context.Background(), "test.sh", []byte(src))
	require.NoError(t, err)

	updated := e.Apply([]byte(src))
	tree, err := p.Reparse(context.Background(), old, e, updated)
	require.NoError(t, err)
	return old, tree
}

func TestReparse_ReusesSiblingsBeforeEdit(t *testing.T) {
	t.Parallel()

	src := "echo one\necho two\necho three\n"
	offset := strings.Index(src, "three")

	p := parser.New()
	old, err := p.Parse(context.Background(), "test.sh", []byte(src))
	require.NoError(t, err)
	before := old.Root.Children()

	e := edit.Replace(offset, offset+len("three"), "four")
	tree, err := p.Reparse(context.Background(), old, e, e.Apply([]byte(src)))
	require.NoError(t, err)

	after := tree.Root.Children()
	require.Len(t, after, len(before))
	for i, child := range before {
		if child.EndOffset > offset {
			break
		}
		assert.Same(t, child, after[i], "child %d (%s) must be reused", i, child.Kind)
	}
	assert.Equal(t, 4, tree.Reused)
	assert.Equal(t, strings.Index(src, "echo three"), tree.RestartOffset)
	assert.Equal(t, "echo four", tree.Text(after[4]))
}

func TestReparse_ReusesCommandsOnTheEditedLine(t *testing.T) {
	t.Parallel()

	src := "a && b && cmd x"
	p := parser.New()
	old, err := p.Parse(context.Background(), "test.sh", []byte(src))
	require.NoError(t, err)
	before := syntax.FindByKind(old.Root, syntax.SymSimpleCommand)
	require.Len(t, before, 3)

	offset := strings.Index(src, "x")
	e := edit.Replace(offset, offset+1, "y")
	tree, err := p.Reparse(context.Background(), old, e, e.Apply([]byte(src)))
	require.NoError(t, err)

	after := syntax.FindByKind(tree.Root, syntax.SymSimpleCommand)
	require.Len(t, after, 3)
	assert.Same(t, before[0], after[0])
	assert.Same(t, before[1], after[1])
	assert.NotSame(t, before[2], after[2])
	assert.Equal(t, "cmd y", tree.Text(after[2]))
	assert.Equal(t, 2, tree.Reused)
	assert.Equal(t, 0, tree.RestartOffset)
}

func TestReparse_ZeroLengthEditIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, src := range corpus {
		want := dump(parse(t, src).Root)

		for offset := 0; offset <= len(src); offset++ {
			_, tree := reparse(t, src, edit.Insert(offset, ""))
			if diff := cmp.Diff(want, dump(tree.Root)); diff != "" {
				t.Fatalf("empty edit at %d of %q changed the tree (-want +got):\n%s", offset, src, diff)
			}
		}
	}
}

func TestReparse_MatchesFullParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		edit func(src string) edit.Edit
	}{
		{
			name: "rename word in last command",
			src:  "echo a; echo b\nls -l\n",
			edit: func(src string) edit.Edit { return edit.Insert(strings.Index(src, "-l")+2, "a") },
		},
		{
			name: "edit heredoc body after terminator",
			src:  "cat <<A; echo x\nbody\nA\necho done\n",
			edit: func(src string) edit.Edit { return edit.Insert(strings.Index(src, "body")+2, "XY") },
		},
		{
			name: "edit attached heredoc body",
			src:  "echo first\ncat <<EOF\nhello\nEOF\n",
			edit: func(src string) edit.Edit {
				return edit.Replace(strings.Index(src, "hello"), strings.Index(src, "hello")+5, "bye")
			},
		},
		{
			name: "open a quote",
			src:  "echo a\necho b\necho c\n",
			edit: func(src string) edit.Edit { return edit.Insert(strings.Index(src, "b"), `"`) },
		},
		{
			name: "turn terminator into case terminator",
			src:  "case x in a) echo; b\nesac\n",
			edit: func(src string) edit.Edit { return edit.Insert(strings.Index(src, ";")+1, ";") },
		},
		{
			name: "delete a newline",
			src:  "a\nb\nc\n",
			edit: func(src string) edit.Edit { return edit.Delete(3, 4) },
		},
		{
			name: "insert a new statement",
			src:  "x=1\ny=2\n",
			edit: func(src string) edit.Edit { return edit.Insert(len(src), "echo $x $y\n") },
		},
		{
			name: "edit inside a subshell",
			src:  "true\n(a; b; c)\n",
			edit: func(src string) edit.Edit { return edit.Insert(strings.Index(src, "c"), "cc") },
		},
		{
			name: "start a heredoc",
			src:  "echo a\ncat\nEOF\n",
			edit: func(src string) edit.Edit { return edit.Insert(strings.Index(src, "cat")+3, " <<EOF") },
		},
		{
			name: "edit right after semicolon",
			src:  "a;b;c",
			edit: func(src string) edit.Edit { return edit.Insert(4, "&") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := tt.edit(tt.src)
			_, tree := reparse(t, tt.src, e)

			updated := string(e.Apply([]byte(tt.src)))
			fresh := parse(t, updated)

			assert.Equal(t, updated, string(tree.Content))
			assert.Equal(t, updated, leafText(tree))
			if diff := cmp.Diff(dump(fresh.Root), dump(tree.Root)); diff != "" {
				t.Errorf("reparse differs from full parse (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReparse_EveryOffset(t *testing.T) {
	t.Parallel()

	src := "a | b && c\ncat <<A\nx $y\nA\nfor i in 1 2; do echo \"$i\"; done\n"
	for offset := 0; offset <= len(src); offset++ {
		for _, text := range []string{"z", "\n", `"`, ";"} {
			e := edit.Insert(offset, text)
			_, tree := reparse(t, src, e)

			fresh := parse(t, string(e.Apply([]byte(src))))
			if diff := cmp.Diff(dump(fresh.Root), dump(tree.Root)); diff != "" {
				t.Fatalf("insert %q at %d (-want +got):\n%s", text, offset, diff)
			}
		}
	}
}

func TestReparse_Errors(t *testing.T) {
	t.Parallel()

	p := parser.New()
	ctx := context.Background()

	t.Run("invalid edit", func(t *testing.T) {
		t.Parallel()

		old := parse(t, "echo")
		_, err := p.Reparse(ctx, old, edit.Insert(10, "x"), []byte("echox"))

		var verr *edit.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("content mismatch", func(t *testing.T) {
		t.Parallel()

		old := parse(t, "echo")
		_, err := p.Reparse(ctx, old, edit.Insert(4, "x"), []byte("echo"))
		require.ErrorIs(t, err, parser.ErrContentMismatch)
	})

	t.Run("corrupt snapshot", func(t *testing.T) {
		t.Parallel()

		old := parse(t, "echo a\necho b\n")
		old.Root.Children()[1].State = []byte{0xff}

		_, err := p.Reparse(ctx, old, edit.Insert(12, "x"), []byte("echo a\necho bx\n"))
		require.ErrorIs(t, err, scanner.ErrStateCorrupt)
	})

	t.Run("snapshot from another version", func(t *testing.T) {
		t.Parallel()

		old := parse(t, "echo a\necho b\n")
		// CBOR map {1: 99}: a state claiming schema version 99.
		old.Root.Children()[1].State = []byte{0xa1, 0x01, 0x18, 0x63}

		_, err := p.Reparse(ctx, old, edit.Insert(12, "x"), []byte("echo a\necho bx\n"))
		require.ErrorIs(t, err, scanner.ErrStateVersion)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		old := parse(t, "echo")
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := p.Reparse(cancelled, old, edit.Insert(4, "x"), []byte("echox"))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestReparse_WithoutOldTree(t *testing.T) {
	t.Parallel()

	tree, err := parser.New().Reparse(context.Background(), nil, edit.Edit{}, []byte("echo hi"))
	require.NoError(t, err)
	assert.Equal(t, "(program (simple_command name: (word) argument: (word)))", syntax.SExpr(tree.Root))
	assert.Zero(t, tree.Reused)
}

func TestReparse_LogsReuse(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	ctx := logging.WithLogger(context.Background(), logger)

	p := parser.New()
	src := "echo a\necho b\n"
	old, err := p.Parse(ctx, "log.sh", []byte(src))
	require.NoError(t, err)

	e := edit.Insert(12, "c")
	_, err = p.Reparse(ctx, old, e, e.Apply([]byte(src)))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "reparsed")
	assert.Contains(t, out, "path=log.sh")
	assert.Contains(t, out, "offset=7")
	assert.Contains(t, out, "reused=2")
}
