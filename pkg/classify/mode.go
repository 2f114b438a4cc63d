// Package classify maps raw byte runs of shell source to terminal symbols.
// Everything here is pure: results depend only on the source bytes, the
// position and the quoting mode passed in.
package classify

// Mode is the lexical context the tokenizer is operating in.
type Mode uint8

// Lexical modes.
const (
	// ModeNone is the top level of a command line.
	ModeNone Mode = iota
	// ModeDouble is the interior of a double-quoted string.
	ModeDouble
	// ModeBacktick is the interior of a `...` command substitution.
	ModeBacktick
	// ModeSubstitution is the interior of a $(...) command substitution.
	ModeSubstitution
	// ModeBrace is the interior of a ${...} parameter expansion.
	ModeBrace
	// ModeArithmetic is the interior of a $((...)) arithmetic expansion.
	ModeArithmetic
	// ModeHeredoc is the body of an unquoted here-document.
	ModeHeredoc
)

//nolint:gochecknoglobals // Read-only name table.
var modeNames = [...]string{
	ModeNone:         "none",
	ModeDouble:       "double",
	ModeBacktick:     "backtick",
	ModeSubstitution: "substitution",
	ModeBrace:        "brace",
	ModeArithmetic:   "arithmetic",
	ModeHeredoc:      "heredoc",
}

// String returns the mode name.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return int(m) < len(modeNames)
}

// IsCommand reports whether commands, operators and reserved words are
// recognized in this mode.
func (m Mode) IsCommand() bool {
	return m == ModeNone || m == ModeBacktick || m == ModeSubstitution
}

// AllowsExtras reports whether whitespace separates tokens in this mode.
func (m Mode) AllowsExtras() bool {
	return m.IsCommand() || m == ModeArithmetic
}
