package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dashgram/internal/cli"
	"github.com/yaklabco/dashgram/internal/configloader"
	"github.com/yaklabco/dashgram/pkg/fsutil"
	"github.com/yaklabco/dashgram/pkg/grammar"
	"github.com/yaklabco/dashgram/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2024-01-01"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	require.NotNil(t, cmd)
	assert.Equal(t, "dashgram", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "global flag %q", name)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"check", "parse", "tokens", "node-types", "watch", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		flags   []string
	}{
		{
			command: "check",
			flags: []string{
				"format", "flavor", "jobs", "max-depth", "ext", "include", "ignore",
				"markdown", "no-shebang", "follow-symlinks", "no-context", "no-summary", "compact",
			},
		},
		{command: "parse", flags: []string{"format", "anonymous", "markdown", "flavor", "max-depth"}},
		{command: "tokens", flags: []string{"extras", "markdown", "flavor", "max-depth"}},
		{command: "node-types", flags: []string{"format", "output", "validate", "schema", "conflicts"}},
		{command: "watch", flags: []string{"max-depth"}},
		{command: "init", flags: []string{"force", "full", "format", "output"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			sub, _, err := cli.NewRootCommand(testInfo()).Find([]string{tt.command})
			require.NoError(t, err)
			for _, name := range tt.flags {
				assert.NotNil(t, sub.Flags().Lookup(name), "flag %q", name)
			}
		})
	}
}

func TestCommandArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	check, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)
	require.NoError(t, check.Args(check, []string{"a.sh", "b.sh", "scripts/"}))

	parse, _, err := cmd.Find([]string{"parse"})
	require.NoError(t, err)
	require.NoError(t, parse.Args(parse, nil))
	require.Error(t, parse.Args(parse, []string{"a.sh", "b.sh"}))

	watch, _, err := cmd.Find([]string{"watch"})
	require.NoError(t, err)
	require.Error(t, watch.Args(watch, nil))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "version=1.2.3")
	assert.Contains(t, out.String(), "commit=abc123")
	assert.Contains(t, out.String(), "state_version=1")
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetArgs([]string{"check", "--help"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	help := out.String()
	assert.Contains(t, help, "Usage:")
	assert.Contains(t, help, "dashgram check [paths...]")
	assert.Contains(t, help, "--max-depth int")
	assert.Contains(t, help, "(default 32)")
	assert.Contains(t, help, "Global Flags:")
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *runner.Result
		want   int
	}{
		{name: "nil", result: nil, want: cli.ExitSuccess},
		{name: "clean", result: &runner.Result{}, want: cli.ExitSuccess},
		{name: "problems", result: &runner.Result{Stats: runner.Stats{FindingsTotal: 2}}, want: cli.ExitProblems},
		{
			name:   "unreadable files win",
			result: &runner.Result{Stats: runner.Stats{FindingsTotal: 2, FilesErrored: 1}},
			want:   cli.ExitIOError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cli.ExitCodeFromResult(tt.result))
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "problems", err: fmt.Errorf("run: %w", cli.ErrProblemsFound), want: cli.ExitProblems},
		{name: "failed files", err: cli.ErrFilesFailed, want: cli.ExitIOError},
		{name: "not found", err: fmt.Errorf("read: %w", fsutil.ErrNotFound), want: cli.ExitIOError},
		{name: "config", err: &configloader.ValidationError{Field: "jobs", Message: "must be >= 0"}, want: cli.ExitConfigError},
		{name: "catalog", err: fmt.Errorf("%w: bad", grammar.ErrCatalogInvalid), want: cli.ExitConfigError},
		{name: "other", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestIsReported(t *testing.T) {
	t.Parallel()

	assert.True(t, cli.IsReported(cli.ErrProblemsFound))
	assert.True(t, cli.IsReported(fmt.Errorf("x: %w", cli.ErrFilesFailed)))
	assert.False(t, cli.IsReported(errors.New("boom")))
	assert.False(t, cli.IsReported(nil))
}
