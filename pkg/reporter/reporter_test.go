package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dashgram/pkg/reporter"
	"github.com/yaklabco/dashgram/pkg/runner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

const workDir = "/work"

// sampleResult parses a clean script, a broken script and a Markdown
// document holding one broken shell fence.
func sampleResult(t *testing.T) *runner.Result {
	t.Helper()

	r := runner.New(nil, "")
	ctx := context.Background()

	files := []runner.FileOutcome{
		r.Process(ctx, filepath.Join(workDir, "bad.sh"), []byte("echo 'oops\n"), false),
		r.Process(ctx, filepath.Join(workDir, "doc.md"), []byte("# Doc\n\n```sh\necho 'x\n```\n"), true),
		r.Process(ctx, filepath.Join(workDir, "ok.sh"), []byte("echo ok\n"), false),
	}
	for _, f := range files {
		require.NoError(t, f.Error)
	}
	require.Len(t, files[0].Findings, 1)
	require.Len(t, files[1].Findings, 1)
	require.Empty(t, files[2].Findings)

	return &runner.Result{
		Files: files,
		Stats: runner.Stats{
			FilesDiscovered:   3,
			FilesProcessed:    3,
			Snippets:          1,
			FindingsTotal:     2,
			FilesWithFindings: 2,
			FindingsByKind:    map[syntax.ProblemKind]int{syntax.ProblemUnterminated: 2},
		},
	}
}

func newReporter(t *testing.T, format reporter.Format, buf *bytes.Buffer) reporter.Reporter {
	t.Helper()

	opts := reporter.DefaultOptions()
	opts.Writer = buf
	opts.ErrorWriter = buf
	opts.Format = format
	opts.Color = "never"
	opts.WorkingDir = workDir
	opts.ToolVersion = "1.2.3"

	rep, err := reporter.New(opts)
	require.NoError(t, err)
	return rep
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "sarif", input: "sarif", want: reporter.FormatSARIF},
		{name: "sexp", input: "sexp", want: reporter.FormatSExpr},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, reporter.FormatSExpr.IsValid())
	assert.True(t, reporter.FormatTable.IsValid())
	assert.False(t, reporter.Format("diff").IsValid())
	assert.False(t, reporter.Format("").IsValid())
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text", format: reporter.FormatText},
		{name: "table", format: reporter.FormatTable},
		{name: "json", format: reporter.FormatJSON},
		{name: "sarif", format: reporter.FormatSARIF},
		{name: "sexp", format: reporter.FormatSExpr},
		{name: "summary", format: reporter.FormatSummary},
		{name: "empty defaults to text", format: ""},
		{name: "unknown", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: tt.format})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestReporters_CountProblems(t *testing.T) {
	t.Parallel()

	formats := []reporter.Format{
		reporter.FormatText,
		reporter.FormatTable,
		reporter.FormatJSON,
		reporter.FormatSARIF,
		reporter.FormatSExpr,
		reporter.FormatSummary,
	}

	for _, format := range formats {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			n, err := newReporter(t, format, &buf).Report(context.Background(), sampleResult(t))
			require.NoError(t, err)
			assert.Equal(t, 2, n)
			assert.NotEmpty(t, buf.String())
		})
	}
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := newReporter(t, reporter.FormatText, &buf).Report(context.Background(), sampleResult(t))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "bad.sh (1 problem)")
	assert.Contains(t, out, "bad.sh:1:6  unterminated")
	assert.Contains(t, out, "doc.md:4:6  unterminated")
	assert.Contains(t, out, "        echo 'oops\n             ^\n")
	assert.NotContains(t, out, "ok.sh")
	assert.Contains(t, out, "2 problems")
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := newReporter(t, reporter.FormatText, &buf).Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "No files to check.\n", buf.String())
}

func TestTextReporter_FileError(t *testing.T) {
	t.Parallel()

	result := &runner.Result{Files: []runner.FileOutcome{{
		Path:  filepath.Join(workDir, "gone.sh"),
		Error: errors.New("read failed"),
	}}}

	var buf bytes.Buffer
	_, err := newReporter(t, reporter.FormatText, &buf).Report(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "gone.sh: error: read failed")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := newReporter(t, reporter.FormatJSON, &buf).Report(context.Background(), sampleResult(t))
	require.NoError(t, err)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "1.2.3", out.Tool)
	assert.Equal(t, 3, out.Summary.FilesChecked)
	assert.Equal(t, 2, out.Summary.FilesWithProblems)
	assert.Equal(t, 2, out.Summary.TotalProblems)
	assert.Equal(t, map[string]int{"unterminated": 2}, out.Summary.ByKind)

	require.Len(t, out.Files, 3)
	bad := out.Files[0]
	assert.Equal(t, "bad.sh", bad.Path)
	assert.Len(t, bad.Digest, 64)
	require.Len(t, bad.Problems, 1)
	assert.Equal(t, "unterminated", bad.Problems[0].Kind)
	assert.Equal(t, 1, bad.Problems[0].Line)
	assert.Equal(t, 6, bad.Problems[0].Column)
	assert.Equal(t, 5, bad.Problems[0].StartOffset)
	assert.Nil(t, bad.Problems[0].Snippet)

	doc := out.Files[1]
	assert.True(t, doc.Markdown)
	require.Len(t, doc.Problems, 1)
	require.NotNil(t, doc.Problems[0].Snippet)
	assert.Equal(t, 0, *doc.Problems[0].Snippet)

	assert.Empty(t, out.Files[2].Problems)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatJSON, Compact: true})
	require.NoError(t, err)

	_, err = rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), `"files":[]`)
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := newReporter(t, reporter.FormatSARIF, &buf).Report(context.Background(), sampleResult(t))
	require.NoError(t, err)

	var out reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "2.1.0", out.Version)
	require.Len(t, out.Runs, 1)
	driver := out.Runs[0].Tool.Driver
	assert.Equal(t, "dashgram", driver.Name)
	assert.Equal(t, "1.2.3", driver.Version)

	ruleIDs := make([]string, 0, len(driver.Rules))
	for _, rule := range driver.Rules {
		ruleIDs = append(ruleIDs, rule.ID)
	}
	assert.Equal(t, []string{"unexpected", "unterminated", "missing"}, ruleIDs)

	results := out.Runs[0].Results
	require.Len(t, results, 2)
	assert.Equal(t, "unterminated", results[0].RuleID)
	assert.Equal(t, "error", results[0].Level)

	loc := results[0].Locations[0].PhysicalLocation
	assert.Equal(t, "bad.sh", loc.ArtifactLocation.URI)
	assert.Equal(t, 1, loc.Region.StartLine)
	assert.Equal(t, 6, loc.Region.StartColumn)
	assert.Equal(t, 5, loc.Region.CharOffset)

	assert.Equal(t, "doc.md", results[1].Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 4, results[1].Locations[0].PhysicalLocation.Region.StartLine)
}

func TestSExprReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := newReporter(t, reporter.FormatSExpr, &buf).Report(context.Background(), sampleResult(t))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, ";; bad.sh\n(program")
	assert.Contains(t, out, ";; doc.md [snippet 0]\n(program")
	assert.Contains(t, out, ";; ok.sh\n(program")
	assert.Equal(t, 3, strings.Count(out, "(program"))
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := newReporter(t, reporter.FormatSummary, &buf).Report(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, buf.String(), "Problems found")
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := newReporter(t, reporter.FormatTable, &buf).Report(context.Background(), sampleResult(t))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "MESSAGE")
	assert.Contains(t, out, "bad.sh")
	assert.Contains(t, out, "4:6")
	assert.NotContains(t, out, "ok.sh")
}
