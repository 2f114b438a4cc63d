package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/dashgram/internal/configloader"
	"github.com/yaklabco/dashgram/internal/logging"
	"github.com/yaklabco/dashgram/pkg/config"
	"github.com/yaklabco/dashgram/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new dashgram configuration file",
		Long: `Create a new .dashgram.yml configuration file in the current directory
with sensible defaults.

Examples:
  dashgram init                      Create minimal .dashgram.yml
  dashgram init --full               Create a config listing every option
  dashgram init --format json        Create .dashgram.json instead
  dashgram init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with every option set")
	cmd.Flags().StringVar(&flags.format, "format", formatYAML, "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .dashgram.yml or .dashgram.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	ctx := cmd.Context()
	logger := logging.NewInteractive(cmd.ErrOrStderr())

	if flags.format != formatYAML && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", errUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		if flags.format == formatJSON {
			outputPath = ".dashgram.json"
		} else {
			outputPath = configloader.ProjectConfigName
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		if !configloader.IsInteractive() {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", errUsage, outputPath)
		}
		ok, err := configloader.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
			fmt.Sprintf("%s already exists. Overwrite?", outputPath))
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("left existing file unchanged", logging.FieldPath, outputPath)
			return nil
		}
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, absPath, content, fsutil.DefaultFileMode); err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'dashgram check' to check the scripts below this directory")

	return nil
}
