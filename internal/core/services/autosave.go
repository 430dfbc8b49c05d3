package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
	"github.com/custodia-labs/margin/internal/logger"
)

var autosaveLog = logger.For("autosave")

// SnapshotSource supplies document copies to the autosave pump.
type SnapshotSource interface {
	// PendingSnapshot returns a copy of the document if the active history
	// has undoable edits, and ok=false otherwise. The check and the copy
	// happen together on the editing timeline.
	PendingSnapshot(ctx context.Context) (snap *domain.Snapshot, ok bool, err error)
}

// AutosaveConfig configures an AutosavePump.
type AutosaveConfig struct {
	// Path is the document's backing file.
	Path string

	// Interval is the tick period. Defaults to domain.DefaultAutosaveInterval.
	Interval time.Duration

	// Source provides snapshots.
	Source SnapshotSource

	// Codec serialises snapshots.
	Codec driven.SnapshotCodec

	// Writer performs the atomic write.
	Writer driven.AtomicWriter

	// Store records save results. Optional.
	Store driven.AutosaveStore

	// OnResult is called after every tick that reached persistence. Optional.
	OnResult func(domain.SaveResult)
}

// AutosavePump periodically writes the document to its backing path.
//
// A tick is skipped when there is nothing undoable, and when the document
// has not changed since the last successful write. A failed write is
// logged and retried on the next tick. The pump never mutates the document.
type AutosavePump struct {
	cfg AutosaveConfig

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// tickMu serialises ticks from the loop and SaveNow.
	tickMu    sync.Mutex
	saved     bool
	lastSaved uint64
}

var _ driving.Autosaver = (*AutosavePump)(nil)

// NewAutosavePump creates a stopped pump.
func NewAutosavePump(cfg AutosaveConfig) (*AutosavePump, error) {
	if cfg.Path == "" || cfg.Source == nil || cfg.Codec == nil || cfg.Writer == nil {
		return nil, fmt.Errorf("%w: autosave needs a path, source, codec and writer", domain.ErrInvalidInput)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = domain.DefaultAutosaveInterval
	}
	return &AutosavePump{cfg: cfg}, nil
}

// Resume starts the periodic loop. It returns immediately; the loop runs
// until Suspend is called or ctx is cancelled.
func (p *AutosavePump) Resume(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	p.running = true
	p.stopCh = make(chan struct{})
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.run(runCtx, p.stopCh)

	autosaveLog.Debug("resumed for %s every %s", p.cfg.Path, p.cfg.Interval)
	return nil
}

// Suspend stops the loop and waits for it to exit. A tick that is already
// writing finishes (or is cancelled) before Suspend returns; no tick starts
// afterwards.
func (p *AutosavePump) Suspend() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	close(p.stopCh)
	p.cancel()
	p.mu.Unlock()

	p.wg.Wait()
	autosaveLog.Debug("suspended for %s", p.cfg.Path)
	return nil
}

// Running reports whether the loop is active.
func (p *AutosavePump) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// SaveNow performs one tick immediately, whether or not the loop is running.
func (p *AutosavePump) SaveNow(ctx context.Context) error {
	return p.tick(ctx)
}

// run is the main autosave loop.
func (p *AutosavePump) run(ctx context.Context, stopCh chan struct{}) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.stopped(stopCh)
			return
		case <-stopCh:
			return
		case <-ticker.C:
			// A tick and a stop can become ready together; stopping wins.
			select {
			case <-stopCh:
				return
			default:
			}
			if err := p.tick(ctx); err != nil && ctx.Err() == nil {
				autosaveLog.Error("%v", err)
			}
		}
	}
}

// stopped marks the pump as not running after its context ended, unless
// Suspend or a newer Resume already owns the state.
func (p *AutosavePump) stopped(stopCh chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running || p.stopCh != stopCh {
		return
	}
	p.running = false
	p.cancel()
	autosaveLog.Debug("stopped for %s: context ended", p.cfg.Path)
}

// tick snapshots the document and writes it if there is something to save.
func (p *AutosavePump) tick(ctx context.Context) error {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	started := time.Now()
	snap, ok, err := p.cfg.Source.PendingSnapshot(ctx)
	if err != nil {
		return err
	}
	if !ok {
		autosaveLog.Debug("nothing to save")
		return nil
	}
	if p.saved && snap.Revision == p.lastSaved {
		autosaveLog.Debug("revision %d already saved", snap.Revision)
		return nil
	}

	result := domain.SaveResult{
		Path:      p.cfg.Path,
		Revision:  snap.Revision,
		StartedAt: started,
	}

	data, err := p.cfg.Codec.Serialize(snap)
	if err == nil {
		result.Bytes = len(data)
		err = p.cfg.Writer.WriteAtomic(ctx, p.cfg.Path, data)
	}
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		// Cancelled by Suspend mid-write: not a persistence failure.
		return err
	}
	result.EndedAt = time.Now()

	if err != nil {
		result.Outcome = domain.SaveFailed
		result.Error = err.Error()
		p.record(ctx, result)
		return &domain.PersistenceError{Path: p.cfg.Path, Err: err}
	}

	p.saved = true
	p.lastSaved = snap.Revision
	result.Outcome = domain.SaveWritten
	p.record(ctx, result)
	autosaveLog.Info("saved revision %d (%d bytes) to %s", snap.Revision, result.Bytes, p.cfg.Path)
	return nil
}

func (p *AutosavePump) record(ctx context.Context, result domain.SaveResult) {
	if p.cfg.OnResult != nil {
		p.cfg.OnResult(result)
	}
	if p.cfg.Store == nil {
		return
	}
	// Record even when the tick was cancelled after the write completed.
	ctx = context.WithoutCancel(ctx)
	if err := p.cfg.Store.RecordResult(ctx, &result); err != nil {
		autosaveLog.Warn("failed to record result: %v", err)
	}
	if err := p.cfg.Store.Prune(ctx, domain.AutosaveHistoryRetention); err != nil {
		autosaveLog.Warn("failed to prune history: %v", err)
	}
}
