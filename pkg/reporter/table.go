package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/yaklabco/dashgram/internal/ui/pretty"
	"github.com/yaklabco/dashgram/pkg/runner"
)

// TableReporter lists every problem as one row of an aligned table.
type TableReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
	width  int
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	return &TableReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
		width:  pretty.TerminalWidth(opts.Writer),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	var rows [][]string
	count := 0
	if result != nil {
		for _, file := range result.Files {
			path := displayPath(r.opts.WorkingDir, file.Path)
			if file.Error != nil {
				rows = append(rows, []string{path, "-", "error", file.Error.Error()})
				continue
			}
			for _, f := range file.Findings {
				loc := strconv.Itoa(f.Line) + ":" + strconv.Itoa(f.Column)
				rows = append(rows, []string{path, loc, string(f.Kind), f.Message})
				count++
			}
		}
	}

	if len(rows) == 0 {
		if r.opts.ShowSummary && result != nil {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
		}
		return 0, nil
	}

	fmt.Fprint(r.bw, r.styles.FormatTable([]string{"FILE", "LOC", "KIND", "MESSAGE"}, rows, r.width))
	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return count, nil
}
