package storage

import "time"

// PlaybackModel is the GORM model for the playback history table
type PlaybackModel struct {
	ID          uint      `gorm:"primaryKey"`
	Completed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	FinishedAt  time.Time `gorm:"not null"`
	Interrupted bool      `gorm:"not null;default:false"`
	ServerID    string    `gorm:"not null;index:idx_server_id"`
	SoundPath   string    `gorm:"not null"`
	StartedAt   time.Time `gorm:"not null;index:idx_started_at"`
	Volume      int       `gorm:"not null;default:0"`
}

// TableName specifies the table name for GORM
func (PlaybackModel) TableName() string { return "playbacks" }
