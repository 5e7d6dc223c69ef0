package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/internal/domain"
	"github.com/yourusername/musicvault-go/internal/infrastructure"
)

// mockExtractor implements domain.Extractor with scriptable failures
// and per-URL fetch counting
type mockExtractor struct {
	mu          sync.Mutex
	fetchCounts map[string]int
	failURLs    map[string]error
	failCovers  map[string]error
	delay       time.Duration
}

func newMockExtractor() *mockExtractor {
	return &mockExtractor{
		fetchCounts: make(map[string]int),
		failURLs:    make(map[string]error),
		failCovers:  make(map[string]error),
	}
}

func (m *mockExtractor) Fetch(ctx context.Context, url string) ([]byte, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	m.fetchCounts[url]++
	err := m.failURLs[url]
	m.mu.Unlock()
	if err != nil {
		return nil, &domain.ExtractionError{URL: url, Err: err}
	}
	return []byte("audio-bytes-for-" + url), nil
}

func (m *mockExtractor) FetchCover(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	err := m.failCovers[url]
	m.mu.Unlock()
	if err != nil {
		return nil, &domain.ExtractionError{URL: url, Err: err}
	}
	return []byte("cover-bytes"), nil
}

func (m *mockExtractor) fetches(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCounts[url]
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestDownloader(t *testing.T, ex *mockExtractor) (*Downloader, *infrastructure.AssetStore) {
	t.Helper()
	assets := infrastructure.NewAssetStore(t.TempDir())
	registry := domain.NewExtractorRegistry(map[domain.Platform]domain.Extractor{
		domain.PlatformYouTube: ex,
	})
	clock := fixedClock{t: time.Unix(1700000000, 0)}
	return NewDownloader(assets, registry, nil, clock, zap.NewNop(), domain.FormatMP3, 3), assets
}

func batchAudio(id string) domain.Audio {
	return domain.Audio{
		ID:          id,
		Title:       "Track " + id,
		DownloadURL: "https://example.com/audio/" + id,
		Platform:    domain.PlatformYouTube,
	}
}

func TestDownloadOne_Idempotent(t *testing.T) {
	ex := newMockExtractor()
	dl, _ := newTestDownloader(t, ex)
	audio := batchAudio("a1")

	first, err := dl.DownloadOne(context.Background(), audio)
	require.NoError(t, err)

	second, err := dl.DownloadOne(context.Background(), audio)
	require.NoError(t, err)

	assert.Equal(t, 1, ex.fetches(audio.DownloadURL), "second call must not issue a second fetch")
	assert.Equal(t, first.Path, second.Path, "path must be identical both times")
}

func TestDownloadOne_PopulatesEntry(t *testing.T) {
	ex := newMockExtractor()
	dl, assets := newTestDownloader(t, ex)

	local, err := dl.DownloadOne(context.Background(), batchAudio("a1"))
	require.NoError(t, err)

	assert.True(t, assets.Exists(local.Path), "audio file must be on disk")
	assert.Equal(t, int64(1700000000), local.CreatedAt)
	assert.Zero(t, local.PlayCount)
	assert.Nil(t, local.LastPlayed)
	require.NotNil(t, local.FileSize)
	assert.Positive(t, *local.FileSize)
}

func TestDownloadOne_AudioFailureIsFatal(t *testing.T) {
	ex := newMockExtractor()
	audio := batchAudio("a1")
	ex.failURLs[audio.DownloadURL] = errors.New("connection refused")
	dl, assets := newTestDownloader(t, ex)

	local, err := dl.DownloadOne(context.Background(), audio)
	require.Error(t, err)
	assert.Nil(t, local)

	var dlErr *domain.DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, "a1", dlErr.AudioID)

	key := infrastructure.AudioKey(audio.DownloadURL)
	assert.False(t, assets.Exists(assets.AudioPath(audio.Platform, key, domain.FormatMP3)),
		"no file must be written on fetch failure")
}

func TestDownloadOne_CoverFailureIsNotFatal(t *testing.T) {
	ex := newMockExtractor()
	audio := batchAudio("a1")
	audio.Cover = "https://cdn.example.com/covers/a1.jpg"
	ex.failCovers[audio.Cover] = errors.New("404")
	dl, _ := newTestDownloader(t, ex)

	local, err := dl.DownloadOne(context.Background(), audio)
	require.NoError(t, err, "cover failure must not fail the download")
	assert.Empty(t, local.CoverPath)
}

func TestDownloadOne_UnparseableCoverURLIsNotFatal(t *testing.T) {
	ex := newMockExtractor()
	audio := batchAudio("a1")
	audio.Cover = "https://cdn.example.com/"
	dl, _ := newTestDownloader(t, ex)

	local, err := dl.DownloadOne(context.Background(), audio)
	require.NoError(t, err)
	assert.Empty(t, local.CoverPath)
}

func TestDownloadOne_CoverStored(t *testing.T) {
	ex := newMockExtractor()
	audio := batchAudio("a1")
	audio.Cover = "https://cdn.example.com/covers/a1.jpg"
	dl, assets := newTestDownloader(t, ex)

	local, err := dl.DownloadOne(context.Background(), audio)
	require.NoError(t, err)
	assert.Equal(t, "assets/youtube/covers/a1.jpg", local.CoverPath)
	assert.True(t, assets.Exists(local.CoverPath))
}

func TestDownloadOne_UnsupportedPlatform(t *testing.T) {
	ex := newMockExtractor()
	dl, _ := newTestDownloader(t, ex)
	audio := batchAudio("a1")
	audio.Platform = "myspace"

	_, err := dl.DownloadOne(context.Background(), audio)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPlatform)
}

func TestDownloadBatch_FailureIsolation(t *testing.T) {
	ex := newMockExtractor()
	second := batchAudio("a2")
	ex.failURLs[second.DownloadURL] = errors.New("boom")
	dl, _ := newTestDownloader(t, ex)

	results := dl.DownloadBatch(context.Background(),
		[]domain.Audio{batchAudio("a1"), second, batchAudio("a3")}, nil)

	require.Len(t, results, 3)
	assert.Equal(t, []string{"a1", "a2", "a3"},
		[]string{results[0].AudioID, results[1].AudioID, results[2].AudioID},
		"results must be in input order")

	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Local)
	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Local)
	assert.NoError(t, results[2].Err)
	assert.NotNil(t, results[2].Local)
}

func TestDownloadBatch_ConcurrencyBounded(t *testing.T) {
	ex := newMockExtractor()
	ex.delay = 20 * time.Millisecond
	assets := infrastructure.NewAssetStore(t.TempDir())
	registry := domain.NewExtractorRegistry(map[domain.Platform]domain.Extractor{
		domain.PlatformYouTube: ex,
	})
	dl := NewDownloader(assets, registry, nil, fixedClock{t: time.Unix(1700000000, 0)},
		zap.NewNop(), domain.FormatMP3, 2)

	audios := make([]domain.Audio, 6)
	for i := range audios {
		audios[i] = batchAudio(string(rune('a' + i)))
		audios[i].DownloadURL = audios[i].DownloadURL + string(rune('a'+i))
	}

	start := time.Now()
	results := dl.DownloadBatch(context.Background(), audios, nil)
	elapsed := time.Since(start)

	require.Len(t, results, 6)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
	// 6 downloads at 20ms each through 2 permits needs at least 3 waves
	assert.GreaterOrEqual(t, elapsed, 55*time.Millisecond)
}

func TestDownloadBatch_ProgressEvents(t *testing.T) {
	ex := newMockExtractor()
	failing := batchAudio("a2")
	ex.failURLs[failing.DownloadURL] = errors.New("boom")
	dl, _ := newTestDownloader(t, ex)

	progress := make(chan DownloadProgress, 64)
	dl.DownloadBatch(context.Background(), []domain.Audio{batchAudio("a1"), failing}, progress)
	close(progress)

	byAudio := make(map[string][]ProgressStatus)
	for ev := range progress {
		byAudio[ev.AudioID] = append(byAudio[ev.AudioID], ev.Status)
	}

	assert.Equal(t, ProgressPending, byAudio["a1"][0])
	assert.Equal(t, ProgressCompleted, byAudio["a1"][len(byAudio["a1"])-1])
	assert.Equal(t, ProgressFailed, byAudio["a2"][len(byAudio["a2"])-1])
}

func TestDownloadBatch_FullProgressChannelNeverBlocks(t *testing.T) {
	ex := newMockExtractor()
	dl, _ := newTestDownloader(t, ex)

	// unbuffered channel nobody reads: delivery must be dropped, not block
	progress := make(chan DownloadProgress)
	done := make(chan struct{})
	go func() {
		dl.DownloadBatch(context.Background(), []domain.Audio{batchAudio("a1")}, progress)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("batch blocked on progress delivery")
	}
}

// recordingHistory implements domain.HistoryRepository in memory
type recordingHistory struct {
	mu      sync.Mutex
	records []*domain.DownloadRecord
}

func (h *recordingHistory) Record(r *domain.DownloadRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHistory) Recent(limit int) ([]*domain.DownloadRecord, error) { return nil, nil }
func (h *recordingHistory) GetStats() (*domain.DownloadStats, error)           { return nil, nil }

func TestDownloadOne_RecordsHistory(t *testing.T) {
	ex := newMockExtractor()
	history := &recordingHistory{}
	assets := infrastructure.NewAssetStore(t.TempDir())
	registry := domain.NewExtractorRegistry(map[domain.Platform]domain.Extractor{
		domain.PlatformYouTube: ex,
	})
	dl := NewDownloader(assets, registry, history, fixedClock{t: time.Unix(1700000000, 0)},
		zap.NewNop(), domain.FormatMP3, 3)

	audio := batchAudio("a1")
	_, err := dl.DownloadOne(context.Background(), audio)
	require.NoError(t, err)
	_, err = dl.DownloadOne(context.Background(), audio)
	require.NoError(t, err)

	require.Len(t, history.records, 2)
	assert.Equal(t, domain.StatusCompleted, history.records[0].Status)
	assert.Equal(t, domain.StatusSkipped, history.records[1].Status, "idempotent hit records a skip")
}
