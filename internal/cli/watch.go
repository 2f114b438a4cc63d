package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yaklabco/dashgram/internal/logging"
	"github.com/yaklabco/dashgram/internal/ui/pretty"
	"github.com/yaklabco/dashgram/pkg/config"
	"github.com/yaklabco/dashgram/pkg/edit"
	"github.com/yaklabco/dashgram/pkg/fsutil"
	"github.com/yaklabco/dashgram/pkg/parser"
	"github.com/yaklabco/dashgram/pkg/runner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

type watchFlags struct {
	maxDepth int
}

func newWatchCommand(global *globalFlags) *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Reparse a shell script incrementally whenever it changes",
		Long: `Watch one shell script and reparse it on every write. Each change is
turned into a single edit, and the previous tree is reused up to the last
statement that ends before the edit. Problems are reported after each
reparse together with the number of reused nodes.

Examples:
  dashgram watch install.sh
  dashgram watch --debug install.sh   # log restart offsets`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], global, flags)
		},
	}

	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", config.DefaultMaxDepth, "maximum nesting of quotes and substitutions")

	return cmd
}

// watchSession keeps the latest tree of one file between changes.
type watchSession struct {
	parser *parser.Parser
	path   string
	tree   *syntax.Tree
	digest runner.Digest
}

func newWatchSession(p *parser.Parser, path string) *watchSession {
	return &watchSession{parser: p, path: path}
}

// update brings the session to content. It reports false when content is
// unchanged since the last update.
func (w *watchSession) update(ctx context.Context, content []byte) (*syntax.Tree, bool, error) {
	digest := runner.DigestOf(content)
	if w.tree != nil && digest == w.digest {
		return w.tree, false, nil
	}

	if w.tree == nil {
		tree, err := w.parser.Parse(ctx, w.path, content)
		if err != nil {
			return nil, false, err
		}
		w.tree, w.digest = tree, digest
		return tree, true, nil
	}

	old := w.tree
	w.tree = nil
	e := edit.Between(old.Content, content)

	tree, err := w.parser.Reparse(ctx, old, e, content)
	if err != nil {
		// The old tree is consumed; start over with a fresh session.
		logging.FromContext(ctx).Warn("incremental reparse failed, parsing from scratch",
			logging.FieldPath, w.path, logging.FieldError, err)
		tree, err = w.parser.Parse(ctx, w.path, content)
		if err != nil {
			return nil, false, err
		}
	}

	w.tree, w.digest = tree, digest
	return tree, true, nil
}

func runWatch(cmd *cobra.Command, path string, global *globalFlags, flags *watchFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.FromContext(ctx)
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(global.color, out))

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	session := newWatchSession(parser.New(parser.WithMaxDepth(flags.maxDepth)), path)
	refresh := func() error {
		content, _, err := fsutil.ReadFile(ctx, absPath)
		if err != nil {
			return err
		}
		tree, changed, err := session.update(ctx, content)
		if err != nil || !changed {
			return err
		}
		logger.Info("parsed",
			logging.FieldPath, path,
			logging.FieldReused, tree.Reused,
			logging.FieldRestart, tree.RestartOffset,
			logging.FieldProblems, len(syntax.Problems(tree.Root)))
		return writeTreeProblems(out, styles, path, tree)
	}

	if err := refresh(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files by renaming, so watch the directory.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}
	logger.Debug("watching", logging.FieldPath, absPath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := refresh(); err != nil {
				logger.Error("reparse failed", logging.FieldPath, path, logging.FieldError, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.FieldError, err)
		}
	}
}

// writeTreeProblems lists the problems of tree with their source lines.
func writeTreeProblems(w io.Writer, styles *pretty.Styles, path string, tree *syntax.Tree) error {
	for _, p := range syntax.Problems(tree.Root) {
		line, col := tree.LineAt(p.Node.StartOffset)
		finding := runner.Finding{
			Kind:        p.Kind,
			Message:     p.Message,
			StartOffset: p.Node.StartOffset,
			EndOffset:   p.Node.EndOffset,
			Line:        line,
			Column:      col,
			Snippet:     -1,
		}
		if _, err := fmt.Fprint(w, styles.FormatFinding(path, finding, true, string(tree.LineContent(line)))); err != nil {
			return err
		}
	}
	return nil
}
