package driven

import (
	"context"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// SnapshotCodec converts documents to and from their stored byte form.
type SnapshotCodec interface {
	// Serialize encodes a snapshot.
	Serialize(snap *domain.Snapshot) ([]byte, error)

	// Deserialize decodes bytes produced by Serialize into a document.
	Deserialize(data []byte) (*domain.Document, error)
}

// AtomicWriter replaces a file's contents so that readers observe either
// the old or the new bytes, never a partial write.
type AtomicWriter interface {
	WriteAtomic(ctx context.Context, path string, data []byte) error
}
