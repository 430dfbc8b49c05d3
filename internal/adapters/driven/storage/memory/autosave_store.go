package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// Ensure AutosaveStore implements the interface.
var _ driven.AutosaveStore = (*AutosaveStore)(nil)

// AutosaveStore is an in-memory implementation of driven.AutosaveStore.
// Results are kept per path in the order they were recorded.
type AutosaveStore struct {
	mu      sync.RWMutex
	results map[string][]domain.SaveResult
}

// NewAutosaveStore creates a new in-memory autosave store.
func NewAutosaveStore() *AutosaveStore {
	return &AutosaveStore{
		results: make(map[string][]domain.SaveResult),
	}
}

// RecordResult appends one autosave attempt.
func (s *AutosaveStore) RecordResult(_ context.Context, result *domain.SaveResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.Path] = append(s.results[result.Path], *result)
	return nil
}

// History returns up to limit results, most recent first.
// An empty path returns results for every document.
func (s *AutosaveStore) History(_ context.Context, path string, limit int) ([]domain.SaveResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.SaveResult
	if path == "" {
		for _, rs := range s.results {
			out = append(out, rs...)
		}
	} else {
		out = slices.Clone(s.results[path])
	}

	slices.SortStableFunc(out, func(a, b domain.SaveResult) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Prune keeps the most recent 'keep' results per path.
func (s *AutosaveStore) Prune(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, rs := range s.results {
		if len(rs) > keep {
			s.results[path] = slices.Clone(rs[len(rs)-keep:])
		}
	}
	return nil
}
