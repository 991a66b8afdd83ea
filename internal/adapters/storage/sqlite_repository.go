package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ducker/internal/domain"
	"ducker/internal/ports"
)

// SQLiteRepository implements ports.HistoryRepository using GORM
type SQLiteRepository struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.HistoryRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (and migrates) the history database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for concurrent access
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.AutoMigrate(&PlaybackModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Record stores one finished playback
func (r *SQLiteRepository) Record(ctx context.Context, rec domain.PlaybackRecord) error {
	model := PlaybackModel{
		Completed:   rec.Completed,
		FinishedAt:  rec.FinishedAt,
		Interrupted: rec.Interrupted,
		ServerID:    rec.ServerID,
		SoundPath:   rec.SoundPath,
		StartedAt:   rec.StartedAt,
		Volume:      rec.Volume,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to record playback: %w", err)
	}
	return nil
}

// Recent returns the most recent playbacks, newest first
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]domain.PlaybackRecord, error) {
	var models []PlaybackModel
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query playback history: %w", err)
	}

	records := make([]domain.PlaybackRecord, 0, len(models))
	for _, m := range models {
		records = append(records, domain.PlaybackRecord{
			Completed:   m.Completed,
			FinishedAt:  m.FinishedAt,
			Interrupted: m.Interrupted,
			ServerID:    m.ServerID,
			SoundPath:   m.SoundPath,
			StartedAt:   m.StartedAt,
			Volume:      m.Volume,
		})
	}
	return records, nil
}

// Close releases the underlying database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
