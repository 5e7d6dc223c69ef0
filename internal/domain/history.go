package domain

import (
	"time"

	"github.com/google/uuid"
)

// DownloadStatus represents the terminal outcome of a download attempt
type DownloadStatus string

const (
	StatusCompleted DownloadStatus = "completed"
	StatusFailed    DownloadStatus = "failed"
	StatusSkipped   DownloadStatus = "skipped" // file already present, fetch elided
)

// DownloadRecord is one row of the download history
type DownloadRecord struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	AudioID      string         `json:"audio_id" gorm:"index"`
	Title        string         `json:"title"`
	URL          string         `json:"url"`
	Platform     Platform       `json:"platform"`
	Status       DownloadStatus `json:"status" gorm:"index"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Path         string         `json:"path,omitempty"`
	FileSize     int64          `json:"file_size"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// NewDownloadRecord creates a history row for an audio download attempt
func NewDownloadRecord(audio Audio, status DownloadStatus) *DownloadRecord {
	return &DownloadRecord{
		ID:       uuid.New().String(),
		AudioID:  audio.ID,
		Title:    audio.Title,
		URL:      audio.DownloadURL,
		Platform: audio.Platform,
		Status:   status,
	}
}

// DownloadStats aggregates history counts by outcome
type DownloadStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Skipped   int64 `json:"skipped"`
}

// HistoryRepository persists download outcomes
type HistoryRepository interface {
	// Record stores a download outcome
	Record(record *DownloadRecord) error

	// Recent returns the most recent records, newest first
	Recent(limit int) ([]*DownloadRecord, error)

	// GetStats returns aggregate counts by outcome
	GetStats() (*DownloadStats, error)
}
