package domain

import "time"

// Platform represents the source platform an audio was extracted from
type Platform string

const (
	PlatformYouTube  Platform = "youtube"
	PlatformBilibili Platform = "bilibili"
	PlatformLocal    Platform = "local" // imported files, never fetched
)

// ValidatePlatform checks if a platform is valid
func ValidatePlatform(platform Platform) bool {
	return platform == PlatformYouTube || platform == PlatformBilibili || platform == PlatformLocal
}

// AudioFormat represents the declared encoding of an audio file
type AudioFormat string

const (
	FormatMP3  AudioFormat = "mp3"
	FormatM4A  AudioFormat = "m4a"
	FormatFLAC AudioFormat = "flac"
	FormatWAV  AudioFormat = "wav"
	FormatOGG  AudioFormat = "ogg"
)

// ValidateFormat checks if a format names a known encoding
func ValidateFormat(format AudioFormat) bool {
	switch format {
	case FormatMP3, FormatM4A, FormatFLAC, FormatWAV, FormatOGG:
		return true
	default:
		return false
	}
}

// Extension returns the file extension for the format, dot included
func (f AudioFormat) Extension() string {
	switch f {
	case FormatMP3, FormatM4A, FormatFLAC, FormatWAV, FormatOGG:
		return "." + string(f)
	default:
		return ".mp3"
	}
}

// Audio represents source-provided audio metadata
type Audio struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	DownloadURL string      `json:"download_url"`
	LocalURL    string      `json:"local_url,omitempty"`
	Author      []string    `json:"author"`
	Cover       string      `json:"cover,omitempty"`
	Tags        []string    `json:"tags"`
	Duration    *uint64     `json:"duration,omitempty"`
	Platform    Platform    `json:"platform"`
	Date        int64       `json:"date"`
	Format      AudioFormat `json:"format,omitempty"`
}

// LocalAudio pairs an Audio with its on-disk location and usage stats.
// Path and CoverPath are relative to the asset root.
type LocalAudio struct {
	Path       string `json:"path"`
	CoverPath  string `json:"cover_path,omitempty"`
	Audio      Audio  `json:"audio"`
	FileSize   *int64 `json:"file_size,omitempty"`
	CreatedAt  int64  `json:"created_at"`
	LastPlayed *int64 `json:"last_played,omitempty"`
	PlayCount  uint32 `json:"play_count"`
}

// NewLocalAudio creates a cache entry for a freshly stored audio file
func NewLocalAudio(path, coverPath string, audio Audio, now time.Time) LocalAudio {
	return LocalAudio{
		Path:      path,
		CoverPath: coverPath,
		Audio:     audio,
		CreatedAt: now.Unix(),
		PlayCount: 0,
	}
}

// MarkPlayed increments the play count and bumps the last-played timestamp
func (la *LocalAudio) MarkPlayed(now time.Time) {
	la.PlayCount++
	ts := now.Unix()
	la.LastPlayed = &ts
}

// StorageUsage reports byte accounting for the asset root
type StorageUsage struct {
	TotalBytes uint64 `json:"total_bytes"`
	AudioBytes uint64 `json:"audio_bytes"`
	CoverBytes uint64 `json:"cover_bytes"`
	AudioCount int    `json:"audio_count"`
}

// CleanupResult reports what an eviction pass reclaimed
type CleanupResult struct {
	DeletedFiles  int      `json:"deleted_files"`
	FreedBytes    uint64   `json:"freed_bytes"`
	DeletedAudios []string `json:"deleted_audios"`
}
