package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// timeFormat is a fixed-width UTC layout so stored times sort as strings.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// Ensure autosaveStore implements the interface.
var _ driven.AutosaveStore = (*autosaveStore)(nil)

// autosaveStore wraps Store to implement driven.AutosaveStore.
type autosaveStore struct {
	store *Store
}

// RecordResult logs one autosave attempt.
func (s *autosaveStore) RecordResult(ctx context.Context, result *domain.SaveResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO autosave_results (path, revision, started_at, ended_at, outcome, bytes, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, result.Path,
		int64(result.Revision),
		formatTime(result.StartedAt),
		formatTime(result.EndedAt),
		string(result.Outcome),
		result.Bytes,
		nullString(result.Error))

	if err != nil {
		return fmt.Errorf("recording autosave result: %w", err)
	}
	return nil
}

// History returns recent results for a backing path, or for every path
// when path is empty. Results are ordered by start time descending.
func (s *autosaveStore) History(ctx context.Context, path string, limit int) ([]domain.SaveResult, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT path, revision, started_at, ended_at, outcome, bytes, error
		FROM autosave_results
		WHERE ? = '' OR path = ?
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, path, path, limit)
	if err != nil {
		return nil, fmt.Errorf("querying autosave history: %w", err)
	}
	defer rows.Close()

	var results []domain.SaveResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		result, err := scanSaveResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating autosave history: %w", err)
	}

	return results, nil
}

// Prune removes old results beyond the retention limit.
// Keeps the most recent 'keep' results per path.
func (s *autosaveStore) Prune(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM autosave_results
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY path ORDER BY started_at DESC, id DESC) as rn
				FROM autosave_results
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning autosave history: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanSaveResult scans a save result from *sql.Rows.
func scanSaveResult(rows *sql.Rows) (*domain.SaveResult, error) {
	var result domain.SaveResult
	var revision int64
	var startedAt, endedAt, outcome string
	var errMsg sql.NullString

	if err := rows.Scan(&result.Path, &revision, &startedAt, &endedAt,
		&outcome, &result.Bytes, &errMsg); err != nil {
		return nil, fmt.Errorf("scanning autosave result: %w", err)
	}

	result.Revision = uint64(revision)
	result.StartedAt = parseTime(startedAt)
	result.EndedAt = parseTime(endedAt)
	result.Outcome = domain.SaveOutcome(outcome)
	if errMsg.Valid {
		result.Error = errMsg.String
	}

	return &result, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseTime returns zero time if the string is invalid.
func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
