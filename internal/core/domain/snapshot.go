package domain

import "time"

// Snapshot is a point-in-time copy of a Document handed to persistence.
// It shares no memory with the live document.
type Snapshot struct {
	// Pages is the deep-copied page tree.
	Pages []Page

	// Revision is the session's edit counter at the time of the copy.
	Revision uint64

	// TakenAt is when the copy was made.
	TakenAt time.Time
}

// NewSnapshot copies d.
func NewSnapshot(d *Document, revision uint64, at time.Time) *Snapshot {
	return &Snapshot{
		Pages:    d.Pages(),
		Revision: revision,
		TakenAt:  at,
	}
}
