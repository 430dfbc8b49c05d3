// Package watcher reports external modifications of a document's backing file.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/margin/internal/logger"
)

var log = logger.For("watcher")

// OwnWrites tells the watcher which file contents it produced itself.
// The file AtomicWriter implements it.
type OwnWrites interface {
	Wrote(path string, data []byte) bool
}

// Change describes an external modification of the watched file.
type Change struct {
	Path    string
	Removed bool
	At      time.Time
}

// Watcher observes a single file. It watches the parent directory so the
// file can be atomically replaced without losing the watch.
type Watcher struct {
	path     string
	own      OwnWrites
	onChange func(Change)
	fsw      *fsnotify.Watcher
}

// New starts watching path. onChange is called from Run's goroutine.
func New(path string, own OwnWrites, onChange func(Change)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, own: own, onChange: onChange, fsw: fsw}, nil
}

// Run delivers changes until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if change, ok := w.handleEvent(ev); ok {
				log.Info("%s changed outside the editor", change.Path)
				w.onChange(change)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("%v", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// handleEvent filters an fsnotify event down to an external change of the
// watched file.
func (w *Watcher) handleEvent(ev fsnotify.Event) (Change, bool) {
	if filepath.Clean(ev.Name) != w.path {
		return Change{}, false
	}
	now := time.Now()
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return Change{Path: w.path, Removed: true, At: now}, true
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		data, err := os.ReadFile(w.path)
		if errors.Is(err, os.ErrNotExist) {
			return Change{}, false
		}
		if err != nil {
			log.Warn("reading %s: %v", w.path, err)
			return Change{}, false
		}
		if w.own != nil && w.own.Wrote(w.path, data) {
			return Change{}, false
		}
		return Change{Path: w.path, At: now}, true
	default:
		return Change{}, false
	}
}
