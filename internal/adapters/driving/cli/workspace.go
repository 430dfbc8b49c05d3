package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/margin/internal/adapters/driven/layout"
	"github.com/custodia-labs/margin/internal/adapters/driven/snapshot"
	storagefile "github.com/custodia-labs/margin/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/margin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/margin/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
	"github.com/custodia-labs/margin/internal/core/services"
	"github.com/custodia-labs/margin/internal/logger"
)

var workspaceLog = logger.For("workspace")

// workspaceOptions tunes openWorkspace.
type workspaceOptions struct {
	// create makes a new document when the path does not exist.
	create bool

	// observers receive session events.
	observers []driven.SessionObserver

	// onResult is told about every autosave attempt.
	onResult func(domain.SaveResult)
}

// workspace is an open document with its running session and autosave pump.
type workspace struct {
	path     string
	settings domain.Settings
	layout   *layout.Vertical
	session  *services.Session
	pump     *services.AutosavePump
	codec    *snapshot.JSONCodec
	writer   *storagefile.AtomicWriter
	history  driven.AutosaveStore

	closeStore func() error
	cancel     context.CancelFunc
	done       chan error
}

// openWorkspace loads the document at path and starts a session on it.
// The caller must Close the workspace.
func openWorkspace(ctx context.Context, path string, settings domain.Settings, opts workspaceOptions) (*workspace, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	codec := snapshot.NewJSONCodec()
	doc, err := readDocument(codec, abs)
	switch {
	case err == nil:
	case opts.create && errors.Is(err, fs.ErrNotExist):
		workspaceLog.Info("creating new document %s", abs)
		doc = settings.NewDocument()
	default:
		return nil, err
	}

	pages := layout.ForDocument(doc, settings.PageGap)
	session, err := services.NewSession(services.SessionConfig{
		Document:  doc,
		Locator:   pages,
		Tool:      &domain.ToolConfig{Tool: settings.Tool, Color: settings.Color},
		Observers: opts.observers,
	})
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}

	history, closeStore := openHistory(settings.DataDir)
	writer := storagefile.NewAtomicWriter()
	pump, err := services.NewAutosavePump(services.AutosaveConfig{
		Path:     abs,
		Interval: settings.AutosaveInterval,
		Source:   session,
		Codec:    codec,
		Writer:   writer,
		Store:    history,
		OnResult: opts.onResult,
	})
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("starting autosave: %w", err)
	}
	session.AttachAutosave(pump)

	// The session outlives ctx so Close can still write the final save.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	ws := &workspace{
		path:       abs,
		settings:   settings,
		layout:     pages,
		session:    session,
		pump:       pump,
		codec:      codec,
		writer:     writer,
		history:    history,
		closeStore: closeStore,
		cancel:     cancel,
		done:       make(chan error, 1),
	}
	go func() {
		ws.done <- session.Run(runCtx)
	}()

	workspaceLog.Debug("opened %s (%d pages)", abs, doc.PageCount())
	return ws, nil
}

// readDocument decodes the document stored at path.
func readDocument(codec driven.SnapshotCodec, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := codec.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return doc, nil
}

// openHistory opens the autosave history database, falling back to an
// in-memory history when it cannot be opened.
func openHistory(dataDir string) (driven.AutosaveStore, func() error) {
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		workspaceLog.Warn("autosave history unavailable, keeping it in memory: %v", err)
		return memory.NewAutosaveStore(), func() error { return nil }
	}
	return store.AutosaveStore(), store.Close
}

// Save writes the current document to its path regardless of history state
// and records the attempt.
func (w *workspace) Save(ctx context.Context) (domain.SaveResult, error) {
	result := domain.SaveResult{Path: w.path, StartedAt: time.Now()}

	snap, err := w.session.Snapshot(ctx)
	if err != nil {
		return result, err
	}
	result.Revision = snap.Revision

	data, err := w.codec.Serialize(snap)
	if err == nil {
		result.Bytes = len(data)
		err = w.writer.WriteAtomic(ctx, w.path, data)
	}
	result.EndedAt = time.Now()
	if err != nil {
		result.Outcome = domain.SaveFailed
		result.Error = err.Error()
	} else {
		result.Outcome = domain.SaveWritten
	}

	recordCtx := context.WithoutCancel(ctx)
	if rerr := w.history.RecordResult(recordCtx, &result); rerr != nil {
		workspaceLog.Warn("failed to record save: %v", rerr)
	}
	if rerr := w.history.Prune(recordCtx, domain.AutosaveHistoryRetention); rerr != nil {
		workspaceLog.Warn("failed to prune history: %v", rerr)
	}
	if err != nil {
		return result, &domain.PersistenceError{Path: w.path, Err: err}
	}
	workspaceLog.Info("saved revision %d to %s", snap.Revision, w.path)
	return result, nil
}

// Close stops autosave, writes pending edits, and stops the session.
// With force set the document is written even if it was never edited.
func (w *workspace) Close(ctx context.Context, force bool) error {
	var errs []error
	if err := w.pump.Suspend(); err != nil {
		errs = append(errs, fmt.Errorf("suspending autosave: %w", err))
	}

	snap, err := w.session.Snapshot(ctx)
	switch {
	case err != nil:
		errs = append(errs, err)
	case force || snap.Revision > 0:
		if _, err := w.Save(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	errs = append(errs, w.stop())
	return errors.Join(errs...)
}

// Discard stops the session without writing pending edits. Edits already
// written by autosave stay on disk.
func (w *workspace) Discard() error {
	var errs []error
	if err := w.pump.Suspend(); err != nil {
		errs = append(errs, fmt.Errorf("suspending autosave: %w", err))
	}
	errs = append(errs, w.stop())
	return errors.Join(errs...)
}

func (w *workspace) stop() error {
	var errs []error
	w.cancel()
	if err := <-w.done; err != nil && !errors.Is(err, context.Canceled) {
		errs = append(errs, err)
	}
	if err := w.closeStore(); err != nil {
		errs = append(errs, fmt.Errorf("closing history: %w", err))
	}
	return errors.Join(errs...)
}
