package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dashgram/internal/ui/pretty"
	"github.com/yaklabco/dashgram/pkg/parser"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

func TestWatchSession_Update(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := "echo one\necho two\necho three\n"
	session := newWatchSession(parser.New(), "w.sh")

	first, changed, err := session.update(ctx, []byte(src))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Zero(t, first.Reused)

	same, changed, err := session.update(ctx, []byte(src))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Same(t, first, same)

	updated := strings.Replace(src, "three", "four", 1)
	tree, changed, err := session.update(ctx, []byte(updated))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 4, tree.Reused)
	assert.Equal(t, strings.Index(src, "echo three"), tree.RestartOffset)
	assert.Equal(t, "w.sh", tree.Path)

	full, err := parser.New().Parse(ctx, "w.sh", []byte(updated))
	require.NoError(t, err)
	assert.Equal(t, syntax.SExpr(full.Root), syntax.SExpr(tree.Root))
}

func TestWatchSession_UpdateSequence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	session := newWatchSession(parser.New(), "w.sh")

	versions := []string{
		"if true; then\n  echo a\nfi\n",
		"if true; then\n  echo a\n  echo 'b\nfi\n",
		"if true; then\n  echo a\n  echo 'b'\nfi\n",
		"",
		"cat <<EOF\nhello\nEOF\necho done\n",
	}

	for _, version := range versions {
		tree, _, err := session.update(ctx, []byte(version))
		require.NoError(t, err)

		full, err := parser.New().Parse(ctx, "w.sh", []byte(version))
		require.NoError(t, err)
		assert.Equal(t, syntax.SExpr(full.Root), syntax.SExpr(tree.Root), "content %q", version)
		assert.Equal(t, version, string(tree.Content))
	}
}

func TestWriteTreeProblems(t *testing.T) {
	t.Parallel()

	tree, err := parser.New().Parse(context.Background(), "w.sh", []byte("echo 'oops\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeTreeProblems(&buf, pretty.NewStyles(false), "w.sh", tree))
	assert.Contains(t, buf.String(), "w.sh:1:6  unterminated")
	assert.Contains(t, buf.String(), "        echo 'oops\n")

	clean, err := parser.New().Parse(context.Background(), "w.sh", []byte("echo ok\n"))
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, writeTreeProblems(&buf, pretty.NewStyles(false), "w.sh", clean))
	assert.Empty(t, buf.String())
}
