package domain

import "context"

// Extractor defines the per-platform capability that turns a source URL
// into raw bytes
type Extractor interface {
	// Fetch downloads the audio bytes for a source URL
	Fetch(ctx context.Context, url string) ([]byte, error)

	// FetchCover downloads cover art bytes for a source URL
	FetchCover(ctx context.Context, url string) ([]byte, error)
}

// ExtractorRegistry maps platform tags to their extractors. Unknown
// platforms fail closed.
type ExtractorRegistry struct {
	extractors map[Platform]Extractor
}

// NewExtractorRegistry creates a registry over the given extractors
func NewExtractorRegistry(extractors map[Platform]Extractor) *ExtractorRegistry {
	return &ExtractorRegistry{extractors: extractors}
}

// Get returns the extractor for a platform, or ErrUnsupportedPlatform
func (r *ExtractorRegistry) Get(platform Platform) (Extractor, error) {
	ex, ok := r.extractors[platform]
	if !ok {
		return nil, ErrUnsupportedPlatform
	}
	return ex, nil
}

// Platforms returns the registered platform tags
func (r *ExtractorRegistry) Platforms() []Platform {
	platforms := make([]Platform, 0, len(r.extractors))
	for p := range r.extractors {
		platforms = append(platforms, p)
	}
	return platforms
}
