// Package cli provides the Cobra command structure for dashgram.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/dashgram/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root dashgram command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	global := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "dashgram",
		Short: "Incremental parser and syntax checker for Dash shell scripts",
		Long: `dashgram parses POSIX and Dash shell scripts into lossless concrete
syntax trees. It reports unterminated quotes and here-documents, missing
keywords and unexpected tokens, prints trees and token streams for grammar
debugging, publishes the node-type catalog and reparses files incrementally
as they change.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if global.debug {
				level = "debug"
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&global.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&global.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&global.color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newCheckCommand(info, global))
	rootCmd.AddCommand(newParseCommand(global))
	rootCmd.AddCommand(newTokensCommand(global))
	rootCmd.AddCommand(newNodeTypesCommand(global))
	rootCmd.AddCommand(newWatchCommand(global))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(global.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
