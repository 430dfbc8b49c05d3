package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// Timeline runs submitted functions one at a time, in submission order,
// on a single goroutine. Everything that touches a session's document is
// sequenced on its timeline, so no two edits (or an edit and a snapshot
// copy) ever overlap.
type Timeline struct {
	tasks chan timelineTask

	mu      sync.Mutex
	running bool
	closed  chan struct{}
}

type timelineTask struct {
	fn   func()
	done chan error
}

// NewTimeline creates an idle timeline. Call Run to start it.
func NewTimeline() *Timeline {
	return &Timeline{
		tasks:  make(chan timelineTask),
		closed: make(chan struct{}),
	}
}

// Run executes submitted functions until ctx is cancelled.
// A timeline can be run only once.
func (t *Timeline) Run(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return fmt.Errorf("%w: timeline already running", domain.ErrInvalidInput)
	}
	t.running = true
	t.mu.Unlock()
	defer close(t.closed)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-t.tasks:
			task.done <- t.execute(task.fn)
		}
	}
}

// execute runs fn, converting a panic into an error so a faulty operation
// cannot end the session.
func (t *Timeline) execute(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("timeline task panicked: %v", r)
		}
	}()
	fn()
	return nil
}

// Do runs fn on the timeline and waits for it to finish.
// It returns ctx.Err() if fn could not be scheduled before ctx ended,
// and domain.ErrSessionClosed if the timeline has stopped.
// Do must not be called from inside a function running on the same timeline.
func (t *Timeline) Do(ctx context.Context, fn func()) error {
	task := timelineTask{fn: fn, done: make(chan error, 1)}
	select {
	case t.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-t.closed:
		return domain.ErrSessionClosed
	}
	return <-task.done
}
