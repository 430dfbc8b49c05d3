// Package file provides the filesystem persistence collaborator for
// autosave: atomic replacement of a document's backing file.
package file

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// Ensure AtomicWriter implements the interface.
var _ driven.AtomicWriter = (*AtomicWriter)(nil)

// AtomicWriter replaces files by writing a sibling temp file, syncing it
// and renaming it over the target. It remembers the digest of the last
// bytes it wrote to each path so watchers can tell its own writes apart.
type AtomicWriter struct {
	mu      sync.RWMutex
	written map[string][sha256.Size]byte
}

// NewAtomicWriter creates a writer.
func NewAtomicWriter() *AtomicWriter {
	return &AtomicWriter{written: make(map[string][sha256.Size]byte)}
}

// WriteAtomic replaces path's contents with data.
func (w *AtomicWriter) WriteAtomic(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}

	// Last chance to abandon the write without touching the target.
	if err := ctx.Err(); err != nil {
		return err
	}

	// Record before the rename so a watcher never sees an unknown digest
	// for our own write.
	digest := sha256.Sum256(data)
	w.mu.Lock()
	prev, hadPrev := w.written[path]
	w.written[path] = digest
	w.mu.Unlock()

	if err := os.Rename(tmpName, path); err != nil {
		w.mu.Lock()
		if hadPrev {
			w.written[path] = prev
		} else {
			delete(w.written, path)
		}
		w.mu.Unlock()
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	committed = true
	return nil
}

// Wrote reports whether data is exactly what this writer last wrote to path.
func (w *AtomicWriter) Wrote(path string, data []byte) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	digest, ok := w.written[path]
	return ok && digest == sha256.Sum256(data)
}
