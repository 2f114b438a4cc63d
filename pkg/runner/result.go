package runner

import (
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// Finding is one problem located in a file. Offsets, line and column refer
// to the file on disk, also for problems found inside Markdown snippets.
type Finding struct {
	Kind        syntax.ProblemKind
	Message     string
	StartOffset int
	EndOffset   int
	Line        int
	Column      int

	// Snippet is the 0-based index of the Markdown snippet the problem was
	// found in, or -1 for shell scripts.
	Snippet int
}

// FileOutcome is the result of parsing one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Markdown is set when the file was processed as a Markdown document.
	Markdown bool

	// Content is the file content as read.
	Content []byte

	// Trees holds the parse trees: one for a script, one per snippet for
	// Markdown documents.
	Trees []*syntax.Tree

	// Findings lists the problems found, in source order.
	Findings []Finding

	// Digest is the BLAKE2b-256 digest of the file content.
	Digest Digest

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully parsed.
	FilesProcessed int

	// FilesErrored is the number of files that could not be read or parsed.
	FilesErrored int

	// Snippets is the number of Markdown snippets parsed.
	Snippets int

	// Bytes is the total size of the parsed content.
	Bytes int

	// FindingsTotal is the total number of problems across all files.
	FindingsTotal int

	// FindingsByKind maps problem kinds to counts.
	FindingsByKind map[syntax.ProblemKind]int

	// FilesWithFindings is the number of files with at least one problem.
	FilesWithFindings int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFindings reports whether any problem was found.
func (r *Result) HasFindings() bool {
	if r == nil {
		return false
	}
	return r.Stats.FindingsTotal > 0
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

func newStats() Stats {
	return Stats{
		FindingsByKind: make(map[syntax.ProblemKind]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	if outcome.Markdown {
		r.Stats.Snippets += len(outcome.Trees)
	}
	for _, tree := range outcome.Trees {
		r.Stats.Bytes += len(tree.Content)
	}

	r.Stats.FindingsTotal += len(outcome.Findings)
	if len(outcome.Findings) > 0 {
		r.Stats.FilesWithFindings++
	}
	for _, f := range outcome.Findings {
		r.Stats.FindingsByKind[f.Kind]++
	}
}
