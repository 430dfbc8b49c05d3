package domain

import "time"

// DefaultAutosaveInterval is the period of the autosave pump.
const DefaultAutosaveInterval = 5 * time.Second

// AutosaveHistoryRetention is how many save results are kept per document.
const AutosaveHistoryRetention = 100

// SaveOutcome classifies a single autosave tick.
type SaveOutcome string

// Save outcomes.
const (
	// SaveWritten means a snapshot was serialised and written.
	SaveWritten SaveOutcome = "written"

	// SaveFailed means serialisation or the write failed; it is retried next tick.
	SaveFailed SaveOutcome = "failed"
)

// SaveResult records one autosave attempt that reached persistence.
type SaveResult struct {
	// Path is the document's backing path.
	Path string

	// Revision is the session edit counter that was captured.
	Revision uint64

	// StartedAt is when the tick began.
	StartedAt time.Time

	// EndedAt is when the write completed or failed.
	EndedAt time.Time

	// Outcome is the result of the attempt.
	Outcome SaveOutcome

	// Bytes is the size of the serialised snapshot.
	Bytes int

	// Error contains the error message if Outcome is SaveFailed.
	Error string
}

// Success reports whether the snapshot reached disk.
func (r SaveResult) Success() bool {
	return r.Outcome == SaveWritten
}
