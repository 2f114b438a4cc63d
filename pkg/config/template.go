package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value. Otherwise the
	// template lists the settings commented out.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate()
	}
	return []byte(DefaultTemplateHeader() + minimalTemplate), nil
}

const minimalTemplate = `

# File extensions treated as shell scripts
# extensions: [".sh", ".dash", ".ash"]

# Check extensionless files whose shebang names a shell
# detect_shebang: true

# Check fenced shell blocks in Markdown files
# markdown: false

# Markdown flavor: commonmark or gfm
# flavor: commonmark

# Nesting limit for quotes and command substitutions
# max_depth: 32

# Output format: text, table, json, sarif, sexp or summary
# format: text

# Number of parallel workers (0 = auto)
# jobs: 0

# Colors: auto, always or never
# color: auto

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`

// generateFullTemplate writes the defaults as live settings.
func generateFullTemplate() ([]byte, error) {
	cfg := NewConfig()
	cfg.Ignore = defaultIgnores()
	return cfg.ToYAMLWithHeader(DefaultTemplateHeader())
}

// templateToJSON renders the defaults as indented JSON.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	doc := map[string]any{
		"extensions":      cfg.Extensions,
		"detect_shebang":  cfg.ShebangDetection(),
		"markdown":        cfg.MarkdownEnabled(),
		"flavor":          cfg.Flavor,
		"follow_symlinks": cfg.FollowsSymlinks(),
		"max_depth":       cfg.MaxDepth,
		"format":          cfg.Format,
		"jobs":            cfg.Jobs,
		"color":           cfg.Color,
		"ignore":          defaultIgnores(),
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(jsonBytes)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func defaultIgnores() []string {
	return []string{"vendor/**", "node_modules/**", ".git/**"}
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# dashgram configuration
# See: https://github.com/yaklabco/dashgram`
}
