package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yaklabco/dashgram/internal/ui/pretty"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

type tokensFlags struct {
	input  inputFlags
	extras bool
}

func newTokensCommand(global *globalFlags) *cobra.Command {
	flags := &tokensFlags{}

	cmd := &cobra.Command{
		Use:   "tokens [file|-]",
		Short: "Print the token stream of a shell script",
		Long: `Print the leaves of the syntax tree of one shell script in source
order: their line:column range, kind and text. The token stream covers
the input without gaps, so concatenating the texts reproduces it.

Examples:
  dashgram tokens install.sh
  dashgram tokens --extras install.sh   # include whitespace and comments
  echo 'echo "$x"' | dashgram tokens`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, global, flags)
		},
	}

	flags.input.register(cmd)
	cmd.Flags().BoolVar(&flags.extras, "extras", false, "include whitespace, comments and line continuations")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string, global *globalFlags, flags *tokensFlags) error {
	outcome, err := parseInput(cmd, args, &flags.input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(global.color, out))

	var rows [][]string
	for _, tree := range outcome.Trees {
		for _, tok := range syntax.Tokens(tree.Root) {
			if tok.Kind.IsExtra() && !flags.extras {
				continue
			}
			startLine, startCol := tree.LineAt(tok.StartOffset)
			endLine, endCol := tree.LineAt(tok.EndOffset)
			rows = append(rows, []string{
				fmt.Sprintf("%d:%d-%d:%d", startLine, startCol, endLine, endCol),
				tok.Kind.DisplayName(),
				strconv.Quote(string(tok.Text(tree.Content))),
			})
		}
	}

	fmt.Fprint(out, styles.FormatTable([]string{"RANGE", "KIND", "TEXT"}, rows, pretty.TerminalWidth(out)))

	return reportFindings(cmd, global, outcome)
}
