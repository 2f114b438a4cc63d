package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/dashgram/internal/ui/pretty"
	"github.com/yaklabco/dashgram/pkg/runner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// TextReporter formats results as styled terminal output grouped by file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		path := displayPath(r.opts.WorkingDir, file.Path)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Unexpected.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if len(file.Findings) == 0 {
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Findings)))

		host := syntax.NewTree(file.Path, file.Content, nil)
		for _, finding := range file.Findings {
			var sourceLine string
			if r.opts.ShowContext {
				sourceLine = string(host.LineContent(finding.Line))
			}
			fmt.Fprint(r.bw, r.styles.FormatFinding(path, finding, r.opts.ShowContext, sourceLine))
			total++
		}

		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}
