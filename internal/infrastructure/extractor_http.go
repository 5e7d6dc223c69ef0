package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/internal/domain"
)

// HTTPExtractor implements domain.Extractor by fetching the source URL
// directly over HTTP. Platforms whose pages need real extraction plug in
// their own implementation behind the same interface.
type HTTPExtractor struct {
	platform domain.Platform
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPExtractor creates an extractor for the given platform
func NewHTTPExtractor(platform domain.Platform, timeout time.Duration, logger *zap.Logger) *HTTPExtractor {
	return &HTTPExtractor{
		platform: platform,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Fetch downloads the audio bytes for a source URL
func (e *HTTPExtractor) Fetch(ctx context.Context, url string) ([]byte, error) {
	return e.get(ctx, url)
}

// FetchCover downloads cover art bytes for a source URL
func (e *HTTPExtractor) FetchCover(ctx context.Context, url string) ([]byte, error) {
	return e.get(ctx, url)
}

func (e *HTTPExtractor) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.ExtractionError{URL: url, Err: err}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &domain.ExtractionError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ExtractionError{
			URL: url,
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ExtractionError{URL: url, Err: err}
	}

	e.logger.Debug("Fetched remote asset",
		zap.String("platform", string(e.platform)),
		zap.String("url", url),
		zap.Int("bytes", len(data)))
	return data, nil
}

// NewDefaultRegistry builds the extractor registry for all fetchable
// platforms. PlatformLocal is deliberately absent: imported files are
// never fetched, so lookups for it fail closed.
func NewDefaultRegistry(timeout time.Duration, logger *zap.Logger) *domain.ExtractorRegistry {
	return domain.NewExtractorRegistry(map[domain.Platform]domain.Extractor{
		domain.PlatformYouTube:  NewHTTPExtractor(domain.PlatformYouTube, timeout, logger),
		domain.PlatformBilibili: NewHTTPExtractor(domain.PlatformBilibili, timeout, logger),
	})
}
