package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/dashgram/internal/logging"
	"github.com/yaklabco/dashgram/pkg/extract"
	"github.com/yaklabco/dashgram/pkg/fsutil"
	"github.com/yaklabco/dashgram/pkg/parser"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// Runner parses files with a shared, immutable parser. Each file gets its
// own parse session.
type Runner struct {
	// Parser parses scripts and snippets.
	Parser *parser.Parser

	// Extractor finds shell snippets in Markdown documents.
	Extractor *extract.Extractor
}

// New creates a Runner. A nil parser means parser.New().
func New(p *parser.Parser, flavor string) *Runner {
	if p == nil {
		p = parser.New()
	}
	return &Runner{Parser: p, Extractor: extract.New(flavor)}
}

// Run discovers files under opts.Paths and parses them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	logging.FromContext(ctx).Debug("run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldProblemsTotal, result.Stats.FindingsTotal,
	)

	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome, opts Options) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.ProcessFile(ctx, path, opts.isMarkdown(path))

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// ProcessFile reads and parses one file.
func (r *Runner) ProcessFile(ctx context.Context, path string, markdown bool) FileOutcome {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return FileOutcome{Path: path, Markdown: markdown, Error: err}
	}
	return r.Process(ctx, path, content, markdown)
}

// Process parses content as a shell script, or as a Markdown document
// whose shell snippets are parsed independently.
func (r *Runner) Process(ctx context.Context, path string, content []byte, markdown bool) FileOutcome {
	outcome := FileOutcome{
		Path:     path,
		Markdown: markdown,
		Content:  content,
		Digest:   DigestOf(content),
	}
	logger := logging.FromContext(ctx)

	if !markdown {
		tree, err := r.Parser.Parse(ctx, path, content)
		if err != nil {
			outcome.Error = err
			return outcome
		}
		outcome.Trees = []*syntax.Tree{tree}
		outcome.Findings = findings(tree, -1, tree, func(off int) int { return off })
		logger.Debug("parsed", logging.FieldPath, path, logging.FieldBytes, len(content),
			logging.FieldProblems, len(outcome.Findings))
		return outcome
	}

	snippets, err := r.Extractor.Extract(ctx, content)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	host := syntax.NewTree(path, content, nil)
	for i, snippet := range snippets {
		tree, err := r.Parser.Parse(ctx, path, snippet.Content)
		if err != nil {
			outcome.Error = fmt.Errorf("snippet at line %d: %w", snippet.Line, err)
			return outcome
		}
		outcome.Trees = append(outcome.Trees, tree)
		outcome.Findings = append(outcome.Findings, findings(tree, i, host, snippet.HostOffset)...)
	}

	logger.Debug("parsed", logging.FieldPath, path, logging.FieldSnippets, len(snippets),
		logging.FieldProblems, len(outcome.Findings))
	return outcome
}

// findings converts the problems of tree into findings positioned in host.
func findings(tree *syntax.Tree, snippet int, host *syntax.Tree, toHost func(int) int) []Finding {
	problems := syntax.Problems(tree.Root)
	out := make([]Finding, 0, len(problems))
	for _, p := range problems {
		start := toHost(p.Node.StartOffset)
		end := max(toHost(p.Node.EndOffset), start)
		line, col := host.LineAt(start)
		out = append(out, Finding{
			Kind:        p.Kind,
			Message:     p.Message,
			StartOffset: start,
			EndOffset:   end,
			Line:        line,
			Column:      col,
			Snippet:     snippet,
		})
	}
	return out
}
