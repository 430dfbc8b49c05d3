package driven

import (
	"context"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// AutosaveStore keeps a history of autosave attempts.
type AutosaveStore interface {
	// RecordResult logs one autosave attempt.
	RecordResult(ctx context.Context, result *domain.SaveResult) error

	// History returns recent results for a backing path.
	// Results are ordered by start time descending (most recent first).
	// An empty path returns results for every document.
	History(ctx context.Context, path string, limit int) ([]domain.SaveResult, error)

	// Prune removes old results beyond the retention limit.
	// Keeps the most recent 'keep' results per path.
	Prune(ctx context.Context, keep int) error
}
