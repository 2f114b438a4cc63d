// Package config defines the configuration types for dashgram.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

// OutputFormat specifies how check results are written.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatSExpr   OutputFormat = "sexp"
	FormatSummary OutputFormat = "summary"
)

// Flavor specifies the Markdown flavor used to find shell snippets.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// ColorMode controls terminal colors.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// DefaultMaxDepth is the default nesting limit for quotes and substitutions.
const DefaultMaxDepth = 32

// Config is the root configuration structure.
type Config struct {
	// Extensions lists the file extensions treated as shell scripts.
	Extensions []string `yaml:"extensions,omitempty"`

	// Include contains glob patterns a file must match to be checked.
	Include []string `yaml:"include,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// Markdown enables checking fenced shell blocks in Markdown files.
	Markdown *bool `yaml:"markdown,omitempty"`

	// Flavor is the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor,omitempty"`

	// DetectShebang checks extensionless files whose shebang names a shell.
	DetectShebang *bool `yaml:"detect_shebang,omitempty"`

	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks *bool `yaml:"follow_symlinks,omitempty"`

	// MaxDepth limits nested quoting and substitution.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Format is the default output format of the check command.
	Format OutputFormat `yaml:"format,omitempty"`

	// Jobs is the number of parallel workers (0 means GOMAXPROCS).
	Jobs int `yaml:"jobs,omitempty"`

	// Color controls colored output.
	Color ColorMode `yaml:"color,omitempty"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Extensions:     []string{".sh", ".dash", ".ash"},
		Markdown:       Bool(false),
		Flavor:         FlavorCommonMark,
		DetectShebang:  Bool(true),
		FollowSymlinks: Bool(false),
		MaxDepth:       DefaultMaxDepth,
		Format:         FormatText,
		Jobs:           0,
		Color:          ColorAuto,
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// MarkdownEnabled reports whether Markdown snippets are checked.
func (c *Config) MarkdownEnabled() bool {
	return c.Markdown != nil && *c.Markdown
}

// ShebangDetection reports whether extensionless files are sniffed.
func (c *Config) ShebangDetection() bool {
	return c.DetectShebang == nil || *c.DetectShebang
}

// FollowsSymlinks reports whether symlinked directories are walked.
func (c *Config) FollowsSymlinks() bool {
	return c.FollowSymlinks != nil && *c.FollowSymlinks
}
