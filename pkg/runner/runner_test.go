package runner_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/yaklabco/dashgram/pkg/fsutil"
	"github.com/yaklabco/dashgram/pkg/parser"
	"github.com/yaklabco/dashgram/pkg/runner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

func TestNew(t *testing.T) {
	t.Parallel()

	r := runner.New(nil, "gfm")
	require.NotNil(t, r.Parser)
	require.NotNil(t, r.Extractor)
	assert.Equal(t, parser.DefaultMaxDepth, r.Parser.MaxDepth())

	p := parser.New(parser.WithMaxDepth(4))
	assert.Same(t, p, runner.New(p, "commonmark").Parser)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.New(nil, "").Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Zero(t, result.Stats.FilesDiscovered)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasFindings())
}

func TestRunner_Run_Findings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"good.sh": "echo ok\n",
		"bad.sh":  "echo 'oops\n",
		"doc.md":  "# Doc\n\n```sh\necho 'x\n```\n\n```go\npackage main\n```\n",
	})

	result, err := runner.New(nil, "").Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Markdown:   true,
	})
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, []string{"bad.sh", "doc.md", "good.sh"}, rel(t, dir, []string{
		result.Files[0].Path, result.Files[1].Path, result.Files[2].Path,
	}))

	bad := result.Files[0]
	require.NoError(t, bad.Error)
	require.Len(t, bad.Findings, 1)
	assert.Equal(t, syntax.ProblemUnterminated, bad.Findings[0].Kind)
	assert.Equal(t, 1, bad.Findings[0].Line)
	assert.Equal(t, 6, bad.Findings[0].Column)
	assert.Equal(t, -1, bad.Findings[0].Snippet)

	doc := result.Files[1]
	require.NoError(t, doc.Error)
	assert.True(t, doc.Markdown)
	require.Len(t, doc.Trees, 1, "only the shell fence is parsed")
	require.Len(t, doc.Findings, 1)
	assert.Equal(t, 4, doc.Findings[0].Line)
	assert.Equal(t, 6, doc.Findings[0].Column)
	assert.Equal(t, 0, doc.Findings[0].Snippet)

	assert.Empty(t, result.Files[2].Findings)

	assert.Equal(t, 3, result.Stats.FilesProcessed)
	assert.Equal(t, 1, result.Stats.Snippets)
	assert.Equal(t, 2, result.Stats.FindingsTotal)
	assert.Equal(t, 2, result.Stats.FilesWithFindings)
	assert.Equal(t, 2, result.Stats.FindingsByKind[syntax.ProblemUnterminated])
	assert.True(t, result.HasFindings())
	assert.False(t, result.HasErrors())
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := make(map[string]string)
	for i := range 20 {
		files[fmt.Sprintf("f%02d.sh", i)] = fmt.Sprintf("echo %d | cat\nif x; then y; fi\n", i)
	}
	writeFiles(t, dir, files)

	r := runner.New(nil, "")
	serial, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 1})
	require.NoError(t, err)
	parallel, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 8})
	require.NoError(t, err)

	require.Len(t, serial.Files, 20)
	require.Len(t, parallel.Files, 20)
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
		assert.Equal(t, serial.Files[i].Digest, parallel.Files[i].Digest)
		assert.Equal(t, syntax.SExpr(serial.Files[i].Trees[0].Root), syntax.SExpr(parallel.Files[i].Trees[0].Root))
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.sh": "true\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(nil, "").Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_ProcessFile_Missing(t *testing.T) {
	t.Parallel()

	outcome := runner.New(nil, "").ProcessFile(context.Background(), filepath.Join(t.TempDir(), "gone.sh"), false)
	require.ErrorIs(t, outcome.Error, fsutil.ErrNotFound)
	assert.True(t, outcome.Digest.IsZero())
}

func TestRunner_Process_Digest(t *testing.T) {
	t.Parallel()

	content := []byte("echo hello\n")
	outcome := runner.New(nil, "").Process(context.Background(), "x.sh", content, false)
	require.NoError(t, outcome.Error)

	want := blake2b.Sum256(content)
	assert.Equal(t, runner.Digest(want), outcome.Digest)
	assert.Equal(t, runner.DigestOf(content).String(), outcome.Digest.String())
	assert.Len(t, outcome.Digest.String(), 64)
	assert.False(t, outcome.Digest.IsZero())
	assert.True(t, runner.Digest{}.IsZero())
}
