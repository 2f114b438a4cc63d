// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldFormat   = "format"
	FieldJobs     = "jobs"
	FieldMaxDepth = "max_depth"
	FieldMarkdown = "markdown"

	// Parse fields.
	FieldOffset   = "offset"
	FieldReused   = "reused"
	FieldBytes    = "bytes"
	FieldProblems = "problems"
	FieldSnippets = "snippets"
	FieldDigest   = "digest"
	FieldRestart  = "restart_offset"
	FieldChanged  = "changed"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesWithIssues = "files_with_issues"
	FieldProblemsTotal   = "problems_total"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	FieldStateVersion = "state_version"

	// Node-type fields.
	FieldKind = "kind"
)
