package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/dashgram/internal/logging"
	"github.com/yaklabco/dashgram/internal/ui/pretty"
	"github.com/yaklabco/dashgram/pkg/config"
	"github.com/yaklabco/dashgram/pkg/fsutil"
	"github.com/yaklabco/dashgram/pkg/langdetect"
	"github.com/yaklabco/dashgram/pkg/parser"
	"github.com/yaklabco/dashgram/pkg/runner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

const (
	stdinArg  = "-"
	stdinPath = "<stdin>"

	treeFormatOutline = "tree"
	treeFormatSExpr   = "sexp"
)

// inputFlags select how a single input is parsed.
type inputFlags struct {
	markdown bool
	flavor   string
	maxDepth int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.markdown, "markdown", false, "treat the input as Markdown and parse its shell fences")
	cmd.Flags().StringVar(&f.flavor, "flavor", string(config.FlavorCommonMark), "Markdown flavor: commonmark, gfm")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", config.DefaultMaxDepth, "maximum nesting of quotes and substitutions")
}

type parseFlags struct {
	input     inputFlags
	format    string
	anonymous bool
}

func newParseCommand(global *globalFlags) *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Print the syntax tree of a shell script",
		Long: `Parse one shell script and print its concrete syntax tree.

The outline format shows one node per line with its field name and
line:column range. The sexp format is the S-expression notation used
by grammar test corpora. Reads standard input when the file is "-" or
omitted. Exits with status 1 when the tree contains problems.

Examples:
  dashgram parse install.sh
  dashgram parse --anonymous install.sh   # include punctuation and keywords
  dashgram parse --format sexp - < x.sh
  dashgram parse --markdown README.md     # one tree per shell fence`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, global, flags)
		},
	}

	flags.input.register(cmd)
	cmd.Flags().StringVar(&flags.format, "format", treeFormatOutline, "tree format: tree, sexp")
	cmd.Flags().BoolVar(&flags.anonymous, "anonymous", false, "include anonymous nodes in the outline")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, global *globalFlags, flags *parseFlags) error {
	if flags.format != treeFormatOutline && flags.format != treeFormatSExpr {
		return fmt.Errorf("%w: unknown tree format %q; valid formats: tree, sexp", errUsage, flags.format)
	}

	outcome, err := parseInput(cmd, args, &flags.input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(global.color, out))

	for i, tree := range outcome.Trees {
		if outcome.Markdown {
			fmt.Fprintf(out, ";; %s [snippet %d]\n", outcome.Path, i)
		}
		switch flags.format {
		case treeFormatSExpr:
			fmt.Fprintln(out, syntax.SExprIndented(tree.Root))
		default:
			fmt.Fprint(out, styles.FormatTree(tree, pretty.TreeOptions{
				Anonymous: flags.anonymous,
				Width:     pretty.TerminalWidth(out),
			}))
		}
	}

	return reportFindings(cmd, global, outcome)
}

// parseInput reads the file named by args, or standard input, and parses
// it as a script or a Markdown document.
func parseInput(cmd *cobra.Command, args []string, flags *inputFlags) (runner.FileOutcome, error) {
	ctx := cmd.Context()

	path := stdinPath
	var content []byte
	var err error

	if len(args) == 0 || args[0] == stdinArg {
		content, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return runner.FileOutcome{}, fmt.Errorf("read standard input: %w", err)
		}
	} else {
		path = args[0]
		content, _, err = fsutil.ReadFile(ctx, path)
		if err != nil {
			return runner.FileOutcome{}, err
		}
	}

	markdown := flags.markdown ||
		langdetect.Matcher{Extensions: runner.DefaultMarkdownExtensions()}.MatchPath(path)

	p := parser.New(parser.WithMaxDepth(flags.maxDepth))
	outcome := runner.New(p, flags.flavor).Process(ctx, path, content, markdown)
	if outcome.Error != nil {
		return outcome, fmt.Errorf("parse %s: %w", path, outcome.Error)
	}

	logging.FromContext(ctx).Debug("parsed input",
		logging.FieldInput, path,
		logging.FieldDigest, outcome.Digest.String(),
		logging.FieldProblems, len(outcome.Findings))

	return outcome, nil
}

// reportFindings lists the problems of outcome on stderr and turns their
// presence into ErrProblemsFound.
func reportFindings(cmd *cobra.Command, global *globalFlags, outcome runner.FileOutcome) error {
	if len(outcome.Findings) == 0 {
		return nil
	}

	errOut := cmd.ErrOrStderr()
	styles := pretty.NewStyles(pretty.IsColorEnabled(global.color, errOut))
	host := syntax.NewTree(outcome.Path, outcome.Content, nil)

	var sb strings.Builder
	for _, finding := range outcome.Findings {
		line := string(host.LineContent(finding.Line))
		sb.WriteString(styles.FormatFinding(outcome.Path, finding, true, line))
	}
	fmt.Fprint(errOut, sb.String())

	return ErrProblemsFound
}
