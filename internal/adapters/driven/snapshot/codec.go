// Package snapshot serialises document snapshots for the backing file.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// Format identifies margin documents on disk.
const Format = "margin"

// Version is the current on-disk schema version.
const Version = 1

// Ensure JSONCodec implements the interface.
var _ driven.SnapshotCodec = (*JSONCodec)(nil)

// envelope is the on-disk layout of a document.
type envelope struct {
	Format   string        `json:"format"`
	Version  int           `json:"version"`
	Revision uint64        `json:"revision"`
	SavedAt  time.Time     `json:"saved_at"`
	Pages    []domain.Page `json:"pages"`
}

// JSONCodec stores documents as indented JSON.
type JSONCodec struct{}

// NewJSONCodec creates a JSON codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Serialize encodes a snapshot.
func (c *JSONCodec) Serialize(snap *domain.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, domain.ErrInvalidInput
	}
	data, err := json.MarshalIndent(envelope{
		Format:   Format,
		Version:  Version,
		Revision: snap.Revision,
		SavedAt:  snap.TakenAt.UTC(),
		Pages:    snap.Pages,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Deserialize decodes bytes produced by Serialize into a document.
func (c *JSONCodec) Deserialize(data []byte) (*domain.Document, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: decoding document: %v", domain.ErrInvalidInput, err)
	}
	if env.Format != Format {
		return nil, fmt.Errorf("%w: not a margin document", domain.ErrInvalidInput)
	}
	if env.Version > Version {
		return nil, fmt.Errorf("%w: document version %d is newer than supported %d", domain.ErrInvalidInput, env.Version, Version)
	}
	return domain.RestoreDocument(env.Pages)
}
