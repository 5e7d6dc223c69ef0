package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAudioNotFound is returned when an audio identifier has no catalog entry
	ErrAudioNotFound = errors.New("audio not found")

	// ErrPlaylistNotFound is returned when a playlist identifier has no catalog entry
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrInvalidPath is returned by the traversal guard for paths that
	// resolve outside the asset root
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidReference is returned for references that cannot be resolved
	// to an on-disk location, such as a cover URL with no basename
	ErrInvalidReference = errors.New("invalid reference")

	// ErrUnsupportedPlatform is returned when no extractor is registered
	// for a platform tag
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrStorageExceeded is reserved for callers enforcing a hard cap before
	// writing; eviction itself only reclaims after the fact
	ErrStorageExceeded = errors.New("storage quota exceeded")
)

// ExtractionError wraps a failed remote fetch
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// DownloadError wraps a failed single-audio download, correlated by audio identifier
type DownloadError struct {
	AudioID string
	Err     error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed for audio %s: %v", e.AudioID, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
