package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/dashgram/internal/logging"
	"github.com/yaklabco/dashgram/internal/ui/pretty"
	"github.com/yaklabco/dashgram/pkg/config"
	"github.com/yaklabco/dashgram/pkg/fsutil"
	"github.com/yaklabco/dashgram/pkg/grammar"
)

const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"

	maxSuggestions = 3
)

type nodeTypesFlags struct {
	format    string
	output    string
	validate  string
	schema    bool
	conflicts bool
}

func newNodeTypesCommand(global *globalFlags) *cobra.Command {
	flags := &nodeTypesFlags{}

	cmd := &cobra.Command{
		Use:   "node-types [kind]",
		Short: "Print the node-type catalog of the grammar",
		Long: `Print the catalog of every node kind the parser produces, with the
fields and children each kind may have. With a kind argument, prints that
entry and the grammar rule that builds it.

Examples:
  dashgram node-types                         # JSON catalog
  dashgram node-types --format table
  dashgram node-types if_statement
  dashgram node-types --output node-types.json
  dashgram node-types --validate node-types.json
  dashgram node-types --conflicts             # declared ambiguities`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodeTypes(cmd, args, global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", formatJSON, "output format: json, yaml, table")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the catalog to a file instead of stdout")
	cmd.Flags().StringVar(&flags.validate, "validate", "", "validate a JSON catalog file against the schema")
	cmd.Flags().BoolVar(&flags.schema, "schema", false, "print the JSON Schema of the catalog")
	cmd.Flags().BoolVar(&flags.conflicts, "conflicts", false, "list declared conflicts and operator precedence")

	return cmd
}

func runNodeTypes(cmd *cobra.Command, args []string, global *globalFlags, flags *nodeTypesFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	table := grammar.Default()

	switch {
	case flags.validate != "":
		data, _, err := fsutil.ReadFile(ctx, flags.validate)
		if err != nil {
			return err
		}
		if err := grammar.ValidateCatalog(data); err != nil {
			return err
		}
		logging.FromContext(ctx).Info("catalog is valid", logging.FieldPath, flags.validate)
		return nil
	case flags.schema:
		_, err := out.Write(grammar.CatalogSchema())
		return err
	case flags.conflicts:
		return writeConflicts(out, global, table)
	}

	catalog := table.Catalog()
	var subject any = catalog
	if len(args) == 1 {
		entry, ok := catalog[args[0]]
		if !ok {
			return unknownKindError(args[0], catalog.Names())
		}
		subject = entry
		if flags.format == formatTable {
			catalog = grammar.Catalog{entry.Type: entry}
		}
	}

	var data []byte
	var err error
	switch flags.format {
	case formatJSON:
		data, err = encodeJSON(subject)
	case formatYAML:
		data, err = encodeYAML(subject)
	case formatTable:
		data = []byte(catalogTable(out, global, table, catalog))
	default:
		return fmt.Errorf("%w: unknown format %q; valid formats: json, yaml, table", errUsage, flags.format)
	}
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err := out.Write(data)
		return err
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, flags.output, data, fsutil.DefaultFileMode)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("node types", logging.FieldOutput, flags.output, logging.FieldChanged, written)
	return nil
}

func encodeJSON(v any) ([]byte, error) {
	if cat, ok := v.(grammar.Catalog); ok {
		return cat.MarshalIndent()
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding node types as JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func encodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(config.YAMLIndent())
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding node types as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding node types as YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// unknownKindError suggests the closest kind names.
func unknownKindError(kind string, names []string) error {
	ranks := fuzzy.RankFindFold(kind, names)
	sort.Sort(ranks)

	var suggestions []string
	for _, rank := range ranks {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, rank.Target)
	}

	if len(suggestions) == 0 {
		return fmt.Errorf("%w: unknown node kind %q", errUsage, kind)
	}
	return fmt.Errorf("%w: unknown node kind %q; did you mean %s?", errUsage, kind, strings.Join(suggestions, ", "))
}

func catalogTable(out io.Writer, global *globalFlags, table *grammar.Table, catalog grammar.Catalog) string {
	styles := pretty.NewStyles(pretty.IsColorEnabled(global.color, out))

	rows := make([][]string, 0, len(catalog))
	for _, name := range catalog.Names() {
		entry := catalog[name]
		if !entry.Named && len(catalog) > 1 {
			continue
		}
		rows = append(rows, []string{name, describeShape(entry), table.Describe(name)})
	}

	return styles.FormatTable([]string{"KIND", "SHAPE", "RULE"}, rows, pretty.TerminalWidth(out))
}

// describeShape summarizes the fields and children of entry.
func describeShape(entry grammar.NodeType) string {
	if len(entry.Subtypes) > 0 {
		return "supertype of " + strconv.Itoa(len(entry.Subtypes))
	}

	fields := make([]string, 0, len(entry.Fields))
	for field, info := range entry.Fields {
		fields = append(fields, field+quantifier(info))
	}
	sort.Strings(fields)

	if entry.Children != nil {
		fields = append(fields, "children"+quantifier(*entry.Children))
	}
	if len(fields) == 0 {
		return "leaf"
	}
	return strings.Join(fields, " ")
}

func quantifier(info grammar.ChildInfo) string {
	switch {
	case info.Multiple && info.Required:
		return "+"
	case info.Multiple:
		return "*"
	case !info.Required:
		return "?"
	default:
		return ""
	}
}

func writeConflicts(out io.Writer, global *globalFlags, table *grammar.Table) error {
	styles := pretty.NewStyles(pretty.IsColorEnabled(global.color, out))
	width := pretty.TerminalWidth(out)

	conflicts := table.Conflicts()
	rows := make([][]string, 0, len(conflicts))
	for _, c := range conflicts {
		rows = append(rows, []string{c.Kind.String(), c.Rule, strings.Join(c.Symbols, " "), c.Reason})
	}
	if _, err := fmt.Fprint(out, styles.FormatTable([]string{"KIND", "RULE", "SYMBOLS", "RESOLUTION"}, rows, width)); err != nil {
		return err
	}

	operators := table.Operators()
	rows = make([][]string, 0, len(operators))
	for _, op := range operators {
		kind := "infix"
		if op.Prefix {
			kind = "prefix"
		}
		rows = append(rows, []string{op.Symbol.DisplayName(), strconv.Itoa(op.Level), op.Assoc.String(), kind, op.Node.String()})
	}
	_, err := fmt.Fprint(out, "\n"+styles.FormatTable([]string{"OPERATOR", "LEVEL", "ASSOC", "KIND", "NODE"}, rows, width))
	return err
}
