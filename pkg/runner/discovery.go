package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/dashgram/pkg/langdetect"
)

// sniffLen is how much of an extensionless file is read to find a shebang.
const sniffLen = 256

// Discover finds shell scripts, and Markdown documents when enabled, under
// the given working directory. Files named explicitly are always included.
// It returns a deterministically sorted list of absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	w, err := newWalker(ctx, opts)
	if err != nil {
		return nil, err
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(w.workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !info.IsDir() {
			w.add(abs)
			continue
		}
		if err := w.walk(abs); err != nil {
			return nil, err
		}
	}

	slices.Sort(w.files)
	return w.files, nil
}

// walker accumulates discovered files across every input path.
type walker struct {
	ctx      context.Context
	workDir  string
	opts     Options
	matcher  langdetect.Matcher
	include  patternSet
	exclude  patternSet
	seen     map[string]struct{}
	files    []string
	visiting map[string]struct{}
}

func newWalker(ctx context.Context, opts Options) (*walker, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	include, err := compilePatterns(opts.IncludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	exclude, err := compilePatterns(opts.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("ignore patterns: %w", err)
	}
	return &walker{
		ctx:      ctx,
		workDir:  workDir,
		opts:     opts,
		matcher:  opts.effectiveMatcher(),
		include:  include,
		exclude:  exclude,
		seen:     make(map[string]struct{}),
		visiting: make(map[string]struct{}),
	}, nil
}

func (w *walker) add(path string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

// walk visits root recursively. Directory symlinks are entered only with
// FollowSymlinks, and a target already on the current walk stack is skipped.
func (w *walker) walk(root string) error {
	if _, ok := w.visiting[root]; ok {
		return nil
	}
	w.visiting[root] = struct{}{}
	defer delete(w.visiting, root)

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if hidden || w.exclude.match(w.rel(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, ok := resolveLink(path)
			if !ok {
				return nil
			}
			if target.dir {
				if !w.opts.FollowSymlinks || w.exclude.match(w.rel(path)) {
					return nil
				}
				return w.walk(target.path)
			}
		}

		if w.accepts(path) {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// accepts reports whether a file found while walking should be parsed.
func (w *walker) accepts(path string) bool {
	rel := w.rel(path)
	if w.exclude.match(rel) {
		return false
	}
	if !w.include.empty() && !w.include.match(rel) {
		return false
	}
	if w.opts.isMarkdown(path) || w.matcher.MatchPath(path) {
		return true
	}
	if !w.matcher.Shebang || filepath.Ext(path) != "" {
		return false
	}
	return w.matcher.Match(rel, sniff(path))
}

type linkTarget struct {
	path string
	dir  bool
}

// resolveLink follows a symlink. Broken or unreadable links report false.
func resolveLink(path string) (linkTarget, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return linkTarget{}, false
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return linkTarget{}, false
	}
	return linkTarget{path: resolved, dir: info.IsDir()}, true
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}

// sniff returns the first bytes of the file at path, or nil.
func sniff(path string) []byte {
	f, err := os.Open(path) //nolint:gosec // path comes from directory discovery
	if err != nil {
		return nil
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && n == 0 {
		return nil
	}
	return buf[:n]
}
