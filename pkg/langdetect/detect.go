// Package langdetect decides which inputs are shell scripts. It uses go-enry
// for extension, shebang and content classification so that extensionless
// scripts and unlabeled Markdown fences are still recognized.
package langdetect

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// enryShell is the linguist name of the POSIX shell family.
const enryShell = "Shell"

// Language names returned by Detect.
const (
	LangShell = "sh"
	LangText  = "text"
)

// Fence info strings that always denote shell code.
//
//nolint:gochecknoglobals // Read-only lookup table.
var shellFenceTags = map[string]bool{
	"sh":          true,
	"shell":       true,
	"dash":        true,
	"ash":         true,
	"bash":        true,
	"posix":       true,
	"shellscript": true,
}

// Matcher selects shell scripts among arbitrary files.
type Matcher struct {
	// Extensions lists file extensions (with leading dot) that are always
	// treated as shell. Matching ignores case.
	Extensions []string

	// Shebang enables detection of extensionless scripts by their "#!" line.
	Shebang bool
}

// MatchPath reports whether path has one of the configured extensions.
func (m Matcher) MatchPath(path string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	for _, want := range m.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Match reports whether the file at path with the given content is a shell
// script. Only the base name of path is consulted, so the directories a
// project happens to live under never affect the result.
func (m Matcher) Match(path string, content []byte) bool {
	if m.MatchPath(path) {
		return true
	}
	if !m.Shebang || filepath.Ext(path) != "" {
		return false
	}
	lang, safe := enry.GetLanguageByShebang(content)
	return safe && lang == enryShell
}

// IsShellFence reports whether a fenced code block holds shell code. Known
// shell info strings match directly; an empty info string falls back to
// content detection.
func IsShellFence(info string, body []byte) bool {
	tag := strings.ToLower(strings.TrimSpace(info))
	if fields := strings.Fields(tag); len(fields) > 0 {
		tag = strings.TrimPrefix(fields[0], "{.")
		tag = strings.TrimSuffix(tag, "}")
	}
	if tag != "" {
		return shellFenceTags[tag]
	}
	return Detect(body) == LangShell
}

// Detect returns the language of content, LangText when unsure.
func Detect(content []byte) string {
	if len(content) == 0 {
		return LangText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	candidates := []string{
		enryShell, "Go", "Python", "JavaScript", "TypeScript", "Ruby",
		"Rust", "Java", "C", "SQL", "JSON", "YAML", "HTML", "Dockerfile",
	}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang)
	}

	return LangText
}

func normalize(lang string) string {
	if lang == enryShell {
		return LangShell
	}
	return strings.ToLower(lang)
}
