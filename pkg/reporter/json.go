package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/dashgram/pkg/runner"
)

// jsonSchemaVersion is the version of the JSON output layout.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Tool    string           `json:"tool"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path     string        `json:"path"`
	Markdown bool          `json:"markdown,omitempty"`
	Digest   string        `json:"digest,omitempty"`
	Problems []JSONProblem `json:"problems"`
	Error    string        `json:"error,omitempty"`
}

// JSONProblem represents a single problem.
type JSONProblem struct {
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	Snippet     *int   `json:"snippet,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked      int            `json:"filesChecked"`
	FilesWithProblems int            `json:"filesWithProblems"`
	FilesErrored      int            `json:"filesErrored"`
	TotalProblems     int            `json:"totalProblems"`
	ByKind            map[string]int `json:"byKind"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalProblems, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Tool:    r.opts.ToolVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			ByKind: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:     displayPath(r.opts.WorkingDir, file.Path),
			Markdown: file.Markdown,
			Problems: make([]JSONProblem, 0, len(file.Findings)),
		}
		if !file.Digest.IsZero() {
			fileResult.Digest = file.Digest.String()
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.FilesErrored++
		}

		for _, f := range file.Findings {
			problem := JSONProblem{
				Kind:        string(f.Kind),
				Message:     f.Message,
				Line:        f.Line,
				Column:      f.Column,
				StartOffset: f.StartOffset,
				EndOffset:   f.EndOffset,
			}
			if f.Snippet >= 0 {
				snippet := f.Snippet
				problem.Snippet = &snippet
			}
			fileResult.Problems = append(fileResult.Problems, problem)
			output.Summary.TotalProblems++
			output.Summary.ByKind[string(f.Kind)]++
		}

		if len(fileResult.Problems) > 0 {
			output.Summary.FilesWithProblems++
		}

		output.Files = append(output.Files, fileResult)
		output.Summary.FilesChecked++
	}

	return output
}
