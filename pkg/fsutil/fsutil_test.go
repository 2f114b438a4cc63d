package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/yaklabco/dashgram/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "run.sh")
	content := []byte("echo hello\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	got, info, err := fsutil.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, path, info.Path)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, os.FileMode(0o644), info.Mode.Perm())
	assert.Equal(t, blake2b.Sum256(content), info.Hash)
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(dir, "missing.sh"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadFile(context.Background(), dir)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = fsutil.ReadFile(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		change func(t *testing.T, path string)
		want   bool
	}{
		{
			name:   "unchanged",
			change: func(*testing.T, string) {},
			want:   false,
		},
		{
			name: "same size new content",
			change: func(t *testing.T, path string) {
				t.Helper()
				stat, err := os.Stat(path)
				require.NoError(t, err)
				require.NoError(t, os.WriteFile(path, []byte("echo HELLO\n"), 0o644))
				require.NoError(t, os.Chtimes(path, stat.ModTime(), stat.ModTime()))
			},
			want: true,
		},
		{
			name: "touched",
			change: func(t *testing.T, path string) {
				t.Helper()
				later := time.Now().Add(time.Hour)
				require.NoError(t, os.Chtimes(path, later, later))
			},
			want: true,
		},
		{
			name: "deleted",
			change: func(t *testing.T, path string) {
				t.Helper()
				require.NoError(t, os.Remove(path))
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "run.sh")
			require.NoError(t, os.WriteFile(path, []byte("echo hello\n"), 0o644))

			_, info, err := fsutil.ReadFile(context.Background(), path)
			require.NoError(t, err)

			tt.change(t, path)

			got, err := fsutil.CheckModified(context.Background(), info)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckModified_Nil(t *testing.T) {
	t.Parallel()

	_, err := fsutil.CheckModified(context.Background(), nil)
	require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "node-types.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	err := fsutil.WriteAtomic(context.Background(), filepath.Join(t.TempDir(), "nope", "x"), []byte("x"), 0)
	require.Error(t, err)
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".dashgram.yml")
	ctx := context.Background()

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("jobs: 1\n"), 0)
	require.NoError(t, err)
	assert.True(t, written, "missing file is created")

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("jobs: 1\n"), 0)
	require.NoError(t, err)
	assert.False(t, written, "identical content is skipped")

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("jobs: 2\n"), 0)
	require.NoError(t, err)
	assert.True(t, written)
}
