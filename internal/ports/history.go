package ports

import (
	"context"

	"ducker/internal/domain"
)

// HistoryRepository persists playback history. Best-effort: callers log
// failures and carry on, playback never depends on it.
type HistoryRepository interface {
	// Record stores one finished playback
	Record(ctx context.Context, rec domain.PlaybackRecord) error

	// Recent returns the most recent records, newest first
	Recent(ctx context.Context, limit int) ([]domain.PlaybackRecord, error)

	// Close releases the underlying database
	Close() error
}
