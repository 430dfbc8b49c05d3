package driving

import "context"

// Autosaver is a cancellable periodic document writer.
type Autosaver interface {
	// Resume starts periodic saving. It is a no-op when already running.
	Resume(ctx context.Context) error

	// Suspend stops periodic saving. When it returns, no tick will write.
	Suspend() error

	// SaveNow performs one tick immediately.
	SaveNow(ctx context.Context) error

	// Running reports whether the pump is active.
	Running() bool
}
