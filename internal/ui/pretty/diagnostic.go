package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/dashgram/pkg/runner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// FormatFinding formats a single finding for terminal output.
func (s *Styles) FormatFinding(path string, finding runner.Finding, showContext bool, sourceLine string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		finding.Line,
		finding.Column,
	)

	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		location,
		s.FormatProblemKind(finding.Kind),
		s.Message.Render(finding.Message),
	))

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, finding.Column))
	}

	return builder.String()
}

// FormatProblemKind returns a styled problem kind.
func (s *Styles) FormatProblemKind(kind syntax.ProblemKind) string {
	switch kind {
	case syntax.ProblemUnexpected:
		return s.Unexpected.Render(string(kind))
	case syntax.ProblemUnterminated:
		return s.Unterminated.Render(string(kind))
	case syntax.ProblemMissing:
		return s.Missing.Render(string(kind))
	default:
		return string(kind)
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Aligns with the finding line.
	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, problemCount int) string {
	header := s.FilePath.Render(path)
	switch problemCount {
	case 0:
	case 1:
		header += s.Dim.Render(" (1 problem)")
	default:
		header += s.Dim.Render(fmt.Sprintf(" (%d problems)", problemCount))
	}
	return header
}
