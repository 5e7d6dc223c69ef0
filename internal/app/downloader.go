package app

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/internal/domain"
	"github.com/yourusername/musicvault-go/internal/infrastructure"
)

// ProgressStatus represents the lifecycle of one download inside a batch
type ProgressStatus string

const (
	ProgressPending     ProgressStatus = "pending"
	ProgressDownloading ProgressStatus = "downloading"
	ProgressCompleted   ProgressStatus = "completed"
	ProgressFailed      ProgressStatus = "failed"
)

// DownloadProgress is one progress event, correlated by audio identifier
type DownloadProgress struct {
	AudioID string         `json:"audio_id"`
	Status  ProgressStatus `json:"status"`
	Reason  string         `json:"reason,omitempty"`
}

// BatchResult is the per-item outcome of a batch download, in input order
type BatchResult struct {
	AudioID string             `json:"audio_id"`
	Local   *domain.LocalAudio `json:"local,omitempty"`
	Err     error              `json:"-"`
	Error   string             `json:"error,omitempty"`
}

// Downloader fetches one asset at a time through the asset store and the
// extractor registry, and coordinates bounded-concurrency batches
type Downloader struct {
	assets        *infrastructure.AssetStore
	registry      *domain.ExtractorRegistry
	history       domain.HistoryRepository
	clock         domain.Clock
	logger        *zap.Logger
	defaultFormat domain.AudioFormat
	maxConcurrent int
}

// NewDownloader creates a downloader. history may be nil; maxConcurrent
// falls back to 3 when not positive.
func NewDownloader(
	assets *infrastructure.AssetStore,
	registry *domain.ExtractorRegistry,
	history domain.HistoryRepository,
	clock domain.Clock,
	logger *zap.Logger,
	defaultFormat domain.AudioFormat,
	maxConcurrent int,
) *Downloader {
	if maxConcurrent < 1 {
		maxConcurrent = 3
	}
	if defaultFormat == "" {
		defaultFormat = domain.FormatMP3
	}
	return &Downloader{
		assets:        assets,
		registry:      registry,
		history:       history,
		clock:         clock,
		logger:        logger,
		defaultFormat: defaultFormat,
		maxConcurrent: maxConcurrent,
	}
}

// DownloadOne produces a LocalAudio for one Audio. If the audio file is
// already on disk the fetch is skipped entirely, so repeated calls with
// the same inputs do the network work at most once. Cover failure is
// non-fatal; audio failure fails the whole item.
func (d *Downloader) DownloadOne(ctx context.Context, audio domain.Audio) (*domain.LocalAudio, error) {
	format := audio.Format
	if format == "" {
		format = d.defaultFormat
	}

	key := infrastructure.AudioKey(audio.DownloadURL)
	audioPath := d.assets.AudioPath(audio.Platform, key, format)

	skipped := d.assets.Exists(audioPath)
	if skipped {
		d.logger.Info("Audio file already exists, skipping fetch",
			zap.String("id", audio.ID),
			zap.String("path", audioPath))
	} else {
		extractor, err := d.registry.Get(audio.Platform)
		if err != nil {
			d.record(audio, domain.StatusFailed, "", 0, err)
			return nil, &domain.DownloadError{AudioID: audio.ID, Err: err}
		}

		d.logger.Info("Downloading audio",
			zap.String("id", audio.ID),
			zap.String("title", audio.Title),
			zap.String("url", audio.DownloadURL))

		data, err := extractor.Fetch(ctx, audio.DownloadURL)
		if err != nil {
			d.record(audio, domain.StatusFailed, "", 0, err)
			return nil, &domain.DownloadError{AudioID: audio.ID, Err: err}
		}
		if err := d.assets.WriteFile(audioPath, data); err != nil {
			d.record(audio, domain.StatusFailed, "", 0, err)
			return nil, &domain.DownloadError{AudioID: audio.ID, Err: err}
		}
	}

	coverPath := ""
	if audio.Cover != "" {
		coverPath = d.downloadCover(ctx, audio)
	}

	local := domain.NewLocalAudio(audioPath, coverPath, audio, d.clock.Now())
	if size, err := d.assets.FileSize(audioPath); err == nil {
		local.FileSize = &size
	} else {
		d.logger.Warn("Could not stat downloaded audio", zap.String("path", audioPath), zap.Error(err))
	}

	status := domain.StatusCompleted
	if skipped {
		status = domain.StatusSkipped
	}
	var size int64
	if local.FileSize != nil {
		size = *local.FileSize
	}
	d.record(audio, status, audioPath, size, nil)

	return &local, nil
}

// downloadCover fetches cover art, degrading to no cover on any failure
func (d *Downloader) downloadCover(ctx context.Context, audio domain.Audio) string {
	coverPath, err := d.assets.CoverPath(audio.Platform, audio.Cover)
	if err != nil {
		d.logger.Warn("Cover URL not addressable, continuing without cover",
			zap.String("id", audio.ID),
			zap.String("cover", audio.Cover),
			zap.Error(err))
		return ""
	}
	if d.assets.Exists(coverPath) {
		return coverPath
	}

	extractor, err := d.registry.Get(audio.Platform)
	if err != nil {
		return ""
	}
	data, err := extractor.FetchCover(ctx, audio.Cover)
	if err != nil {
		d.logger.Warn("Cover download failed, continuing without cover",
			zap.String("id", audio.ID),
			zap.Error(err))
		return ""
	}
	if err := d.assets.WriteFile(coverPath, data); err != nil {
		d.logger.Warn("Cover write failed, continuing without cover",
			zap.String("id", audio.ID),
			zap.Error(err))
		return ""
	}
	return coverPath
}

// DownloadBatch downloads many audios under a counting semaphore and
// returns one result per input, in input order regardless of completion
// order. One item's failure never cancels or delays the others. Progress
// events are delivered best-effort: a full or nil channel never blocks
// or fails a download.
func (d *Downloader) DownloadBatch(ctx context.Context, audios []domain.Audio, progress chan<- DownloadProgress) []BatchResult {
	results := make([]BatchResult, len(audios))
	sem := make(chan struct{}, d.maxConcurrent)
	var wg sync.WaitGroup

	for i, audio := range audios {
		emit(progress, DownloadProgress{AudioID: audio.ID, Status: ProgressPending})

		wg.Add(1)
		go func(i int, audio domain.Audio) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			emit(progress, DownloadProgress{AudioID: audio.ID, Status: ProgressDownloading})

			local, err := d.DownloadOne(ctx, audio)
			result := BatchResult{AudioID: audio.ID, Local: local, Err: err}
			if err != nil {
				result.Error = err.Error()
				emit(progress, DownloadProgress{AudioID: audio.ID, Status: ProgressFailed, Reason: err.Error()})
			} else {
				emit(progress, DownloadProgress{AudioID: audio.ID, Status: ProgressCompleted})
			}
			results[i] = result
		}(i, audio)
	}

	wg.Wait()
	return results
}

func emit(progress chan<- DownloadProgress, event DownloadProgress) {
	if progress == nil {
		return
	}
	select {
	case progress <- event:
	default:
	}
}

// record writes a history row best-effort; history failures are logged,
// never propagated
func (d *Downloader) record(audio domain.Audio, status domain.DownloadStatus, path string, size int64, cause error) {
	if d.history == nil {
		return
	}
	rec := domain.NewDownloadRecord(audio, status)
	rec.Path = path
	rec.FileSize = size
	if cause != nil {
		rec.ErrorMessage = cause.Error()
	}
	if err := d.history.Record(rec); err != nil {
		d.logger.Warn("Failed to record download history", zap.String("id", audio.ID), zap.Error(err))
	}
}

// IsUnsupportedPlatform reports whether an error came from a registry miss
func IsUnsupportedPlatform(err error) bool {
	return errors.Is(err, domain.ErrUnsupportedPlatform)
}
