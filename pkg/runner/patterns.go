package runner

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// patternSet is a compiled list of include or ignore globs.
//
// Patterns are matched against the slash-separated path relative to the
// working directory and, failing that, against the base name, so "vendor"
// skips every directory of that name. "*" stops at a separator while "**"
// crosses them. A pattern of the form "**/x" also matches a bare "x".
type patternSet struct {
	globs []glob.Glob
}

func compilePatterns(patterns []string) (patternSet, error) {
	var set patternSet
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return patternSet{}, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		set.globs = append(set.globs, g)
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok && rest != "" {
			if g, err := glob.Compile(rest, '/'); err == nil {
				set.globs = append(set.globs, g)
			}
		}
	}
	return set, nil
}

func (s patternSet) empty() bool {
	return len(s.globs) == 0
}

// match reports whether relPath matches any pattern in the set.
func (s patternSet) match(relPath string) bool {
	slashed := filepath.ToSlash(relPath)
	base := path.Base(slashed)
	for _, g := range s.globs {
		if g.Match(slashed) || g.Match(base) {
			return true
		}
	}
	return false
}
