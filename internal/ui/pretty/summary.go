package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/dashgram/pkg/runner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 problems (2 unexpected, 1 missing) in 2 files".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FindingsTotal == 0 {
		msg := s.Success.Render("No problems found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s parsed)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles)))
		if stats.FilesErrored > 0 {
			msg += ", " + s.Failure.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored))
		}
		return msg + "\n"
	}

	var kinds []string
	for _, kind := range []syntax.ProblemKind{syntax.ProblemUnexpected, syntax.ProblemUnterminated, syntax.ProblemMissing} {
		if n := stats.FindingsByKind[kind]; n > 0 {
			kinds = append(kinds, s.FormatProblemKind(kind)+" "+strconv.Itoa(n))
		}
	}

	parts := []string{
		fmt.Sprintf("%d %s (%s)", stats.FindingsTotal, plural(stats.FindingsTotal, "problem", "problems"), strings.Join(kinds, ", ")),
	}
	parts = append(parts, fmt.Sprintf("in %d %s", stats.FilesWithFindings, plural(stats.FilesWithFindings, wordFile, wordFiles)))
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files parsed:        " + s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")
	if stats.Snippets > 0 {
		builder.WriteString("  Markdown snippets:   " + s.SummaryValue.Render(strconv.Itoa(stats.Snippets)) + "\n")
	}
	builder.WriteString("  Bytes:               " + s.SummaryValue.Render(strconv.Itoa(stats.Bytes)) + "\n")
	if stats.FilesWithFindings > 0 {
		builder.WriteString("  Files with problems: " + s.Failure.Render(strconv.Itoa(stats.FilesWithFindings)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files unreadable:    " + s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Total problems:      " + s.SummaryValue.Render(strconv.Itoa(stats.FindingsTotal)) + "\n")
	if n := stats.FindingsByKind[syntax.ProblemUnexpected]; n > 0 {
		builder.WriteString("    Unexpected:        " + s.Unexpected.Render(strconv.Itoa(n)) + "\n")
	}
	if n := stats.FindingsByKind[syntax.ProblemUnterminated]; n > 0 {
		builder.WriteString("    Unterminated:      " + s.Unterminated.Render(strconv.Itoa(n)) + "\n")
	}
	if n := stats.FindingsByKind[syntax.ProblemMissing]; n > 0 {
		builder.WriteString("    Missing:           " + s.Missing.Render(strconv.Itoa(n)) + "\n")
	}

	builder.WriteString("\n")
	if stats.FindingsTotal > 0 || stats.FilesErrored > 0 {
		builder.WriteString(s.Failure.Render("Problems found"))
	} else {
		builder.WriteString(s.Success.Render("All files parsed cleanly"))
	}
	builder.WriteString("\n")

	return builder.String()
}
