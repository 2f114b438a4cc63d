package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/dashgram/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command:     plain,
			Heading:     plain,
			Subcommand:  plain,
			Flag:        plain,
			Description: plain,
			Example:     plain,
			Dim:         plain,
		}
	}
	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Description: lipgloss.NewStyle(),
		Example:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Dim:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter provides styled help output for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a new help formatter with the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ description .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ long . }}

{{end}}` + usageTemplate

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command":     h.styles.Command.Render,
		"heading":     h.styles.Heading.Render,
		"subcommand":  h.styles.Subcommand.Render,
		"description": h.styles.Description.Render,
		"flags":       h.formatFlags,
		"long":        h.formatLong,
		"rpad":        rpad,
	}
}

// formatLong styles the indented example lines of a long description.
func (h *HelpFormatter) formatLong(text string) string {
	lines := strings.Split(strings.TrimRight(text, " \t\n"), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.HasPrefix(line, "  ") {
			line = h.styles.Example.Render(line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// formatFlags renders a flag set as two aligned columns.
func (h *HelpFormatter) formatFlags(fs *pflag.FlagSet) string {
	type row struct {
		flag, varname, usage string
		width                int
	}
	var rows []row
	width := 0

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		r := row{flag: "    --" + f.Name}
		if f.Shorthand != "" {
			r.flag = "-" + f.Shorthand + ", --" + f.Name
		}
		r.varname, r.usage = pflag.UnquoteUsage(f)
		if !isZeroDefault(f) {
			r.usage += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		r.width = len(r.flag)
		if r.varname != "" {
			r.width += 1 + len(r.varname)
		}
		rows = append(rows, r)
		width = max(width, r.width)
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		styled := h.styles.Flag.Render(r.flag)
		if r.varname != "" {
			styled += " " + h.styles.Dim.Render(r.varname)
		}
		padding := strings.Repeat(" ", width-r.width+3)
		lines = append(lines, "  "+styled+padding+h.styles.Description.Render(r.usage))
	}
	return strings.Join(lines, "\n")
}

func isZeroDefault(f *pflag.Flag) bool {
	switch f.DefValue {
	case "", "false", "0", "[]":
		return true
	default:
		return false
	}
}

// ApplyToCommand applies styled help templates to a Cobra command and all subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()

	render := func(command *cobra.Command, name, text string) error {
		tmpl, err := template.New(name).Funcs(funcs).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		return tmpl.Execute(command.OutOrStdout(), command)
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render(command, "usage", usageTemplate)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command, "help", helpTemplate); err != nil {
			command.PrintErrln(err)
		}
	})
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}
