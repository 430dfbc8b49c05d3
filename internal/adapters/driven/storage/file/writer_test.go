package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriter_WritesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.margin")
	w := NewAtomicWriter()
	ctx := context.Background()

	require.NoError(t, w.WriteAtomic(ctx, path, []byte("first")))
	require.NoError(t, w.WriteAtomic(ctx, path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAtomicWriter_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "doc.margin")

	require.NoError(t, NewAtomicWriter().WriteAtomic(context.Background(), path, []byte("x")))

	assert.FileExists(t, path)
}

func TestAtomicWriter_Wrote(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.margin")
	w := NewAtomicWriter()

	assert.False(t, w.Wrote(path, []byte("x")))
	require.NoError(t, w.WriteAtomic(context.Background(), path, []byte("x")))

	assert.True(t, w.Wrote(path, []byte("x")))
	assert.False(t, w.Wrote(path, []byte("y")))
	assert.False(t, w.Wrote(path+".other", []byte("x")))
}

func TestAtomicWriter_CancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.margin")
	w := NewAtomicWriter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.WriteAtomic(ctx, path, []byte("x"))

	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
	assert.False(t, w.Wrote(path, []byte("x")))
}

func TestAtomicWriter_RenameFailureKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	// A directory at the target path makes the rename fail.
	path := filepath.Join(dir, "doc.margin")
	require.NoError(t, os.Mkdir(path, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("k"), 0600))
	w := NewAtomicWriter()

	err := w.WriteAtomic(context.Background(), path, []byte("x"))

	require.Error(t, err)
	assert.False(t, w.Wrote(path, []byte("x")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")
}
