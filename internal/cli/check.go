package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/dashgram/internal/configloader"
	"github.com/yaklabco/dashgram/internal/logging"
	"github.com/yaklabco/dashgram/pkg/config"
	"github.com/yaklabco/dashgram/pkg/langdetect"
	"github.com/yaklabco/dashgram/pkg/parser"
	"github.com/yaklabco/dashgram/pkg/reporter"
	"github.com/yaklabco/dashgram/pkg/runner"
)

type checkFlags struct {
	format         string
	flavor         string
	jobs           int
	maxDepth       int
	extensions     []string
	include        []string
	ignore         []string
	markdown       bool
	noShebang      bool
	followSymlinks bool
	noContext      bool
	noSummary      bool
	compact        bool
}

func newCheckCommand(info BuildInfo, global *globalFlags) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check shell scripts for syntax problems",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, info, global, flags)
		},
	}

	addCheckFlags(cmd, flags)

	return cmd
}

const checkLongDescription = `Parse shell scripts and report syntax problems.

By default, checks all .sh, .dash and .ash files in the current directory
and subdirectories, plus extensionless files whose shebang names a POSIX
shell. With --markdown, shell fences in Markdown files are checked too.

Examples:
  dashgram check                     # Check current directory
  dashgram check scripts/            # Check scripts directory
  dashgram check install.sh          # Check a single file
  dashgram check --markdown docs/    # Check shell fences in Markdown
  dashgram check --format sarif      # Output SARIF for code scanning
  dashgram check --format sexp x.sh  # Dump syntax trees`

func addCheckFlags(cmd *cobra.Command, flags *checkFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json, sarif, sexp, summary")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor: commonmark, gfm")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", config.DefaultMaxDepth, "maximum nesting of quotes and substitutions")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions treated as shell scripts")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns a file must match")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "check shell fences in Markdown files")
	cmd.Flags().BoolVar(&flags.noShebang, "no-shebang", false, "do not sniff extensionless files for a shell shebang")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "hide the summary line")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
}

// cliConfig builds the configuration layer of the flags the user set.
func cliConfig(cmd *cobra.Command, flags *checkFlags, global *globalFlags) *config.Config {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}
	if changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	if changed("max-depth") {
		cfg.MaxDepth = flags.maxDepth
	}
	if changed("ext") {
		cfg.Extensions = flags.extensions
	}
	if changed("include") {
		cfg.Include = flags.include
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("markdown") {
		cfg.Markdown = config.Bool(flags.markdown)
	}
	if changed("no-shebang") {
		cfg.DetectShebang = config.Bool(!flags.noShebang)
	}
	if changed("follow-symlinks") {
		cfg.FollowSymlinks = config.Bool(flags.followSymlinks)
	}
	if changed("color") {
		cfg.Color = config.ColorMode(global.color)
	}

	return cfg
}

func runCheck(cmd *cobra.Command, args []string, info BuildInfo, global *globalFlags, flags *checkFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: global.configPath,
		CLIConfig:    cliConfig(cmd, flags, global),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldFiles, loadResult.LoadedFrom,
		logging.FieldFormat, cfg.Format,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldMaxDepth, cfg.MaxDepth,
		logging.FieldMarkdown, cfg.MarkdownEnabled(),
	)

	checker := runner.New(parser.New(parser.WithMaxDepth(cfg.MaxDepth)), string(cfg.Flavor))

	runOpts := runner.Options{
		Paths:      args,
		WorkingDir: workDir,
		Matcher: langdetect.Matcher{
			Extensions: cfg.Extensions,
			Shebang:    cfg.ShebangDetection(),
		},
		Markdown:       cfg.MarkdownEnabled(),
		IncludeGlobs:   cfg.Include,
		ExcludeGlobs:   cfg.Ignore,
		FollowSymlinks: cfg.FollowsSymlinks(),
		Jobs:           cfg.Jobs,
	}

	logger.Debug("starting check run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
	)

	result, err := checker.Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("check run failed: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      reporter.Format(cfg.Format),
		Color:       string(cfg.Color),
		ShowContext: !flags.noContext,
		ShowSummary: !flags.noSummary,
		Compact:     flags.compact,
		ToolVersion: info.Version,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("check finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithFindings,
		logging.FieldProblemsTotal, result.Stats.FindingsTotal,
	)

	switch ExitCodeFromResult(result) {
	case ExitIOError:
		return ErrFilesFailed
	case ExitProblems:
		return ErrProblemsFound
	default:
		return nil
	}
}
