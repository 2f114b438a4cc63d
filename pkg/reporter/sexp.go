package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/dashgram/pkg/runner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// SExprReporter dumps every parse tree as an indented S-expression. Each
// tree is preceded by a ";;" comment naming the file and, for Markdown
// documents, the snippet index.
type SExprReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewSExprReporter creates a new S-expression reporter.
func NewSExprReporter(opts Options) *SExprReporter {
	return &SExprReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SExprReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		path := displayPath(r.opts.WorkingDir, file.Path)
		total += len(file.Findings)

		if file.Error != nil {
			fmt.Fprintf(r.bw, ";; %s: error: %v\n", path, file.Error)
			continue
		}

		for i, tree := range file.Trees {
			if file.Markdown {
				fmt.Fprintf(r.bw, ";; %s [snippet %d]\n", path, i)
			} else {
				fmt.Fprintf(r.bw, ";; %s\n", path)
			}
			if err := syntax.WriteSExpr(r.bw, tree.Root); err != nil {
				return total, fmt.Errorf("write tree for %s: %w", path, err)
			}
		}
	}

	return total, nil
}
