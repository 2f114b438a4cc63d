// Package runner parses many files concurrently. It discovers shell scripts
// and Markdown documents with embedded shell, runs one parse session per
// file on a worker pool and collects problems in deterministic order.
package runner

import "github.com/yaklabco/dashgram/pkg/langdetect"

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Matcher decides which files are shell scripts.
	Matcher langdetect.Matcher

	// Markdown enables parsing shell fences inside Markdown files.
	Markdown bool

	// MarkdownExtensions lists the extensions of Markdown files. Defaults
	// to DefaultMarkdownExtensions().
	MarkdownExtensions []string

	// IncludeGlobs are additional glob patterns to include, relative to WorkingDir.
	// Empty means "include everything the matcher accepts".
	IncludeGlobs []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int
}

// DefaultExtensions returns the default set of shell script extensions.
func DefaultExtensions() []string {
	return []string{".sh", ".dash", ".ash"}
}

// DefaultMarkdownExtensions returns the default set of Markdown extensions.
func DefaultMarkdownExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveMatcher() langdetect.Matcher {
	m := o.Matcher
	if len(m.Extensions) == 0 {
		m.Extensions = DefaultExtensions()
	}
	return m
}

func (o Options) effectiveMarkdownExtensions() []string {
	if !o.Markdown {
		return nil
	}
	if len(o.MarkdownExtensions) == 0 {
		return DefaultMarkdownExtensions()
	}
	return o.MarkdownExtensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// isMarkdown reports whether path is a Markdown document under opts.
func (o Options) isMarkdown(path string) bool {
	return langdetect.Matcher{Extensions: o.effectiveMarkdownExtensions()}.MatchPath(path)
}
