//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/api"
	"github.com/yourusername/musicvault-go/internal/app"
	"github.com/yourusername/musicvault-go/internal/domain"
	"github.com/yourusername/musicvault-go/internal/infrastructure"
)

// stubExtractor serves fixed bytes for any URL
type stubExtractor struct{}

func (stubExtractor) Fetch(ctx context.Context, url string) ([]byte, error) {
	return []byte("audio-payload"), nil
}

func (stubExtractor) FetchCover(ctx context.Context, url string) ([]byte, error) {
	return []byte("cover-payload"), nil
}

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	log := zap.NewNop()

	assets := infrastructure.NewAssetStore(dir)
	require.NoError(t, assets.Init())

	store := infrastructure.NewCatalogStore(dir, log)

	history, err := infrastructure.NewSQLiteHistoryRepository(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { history.Close() })

	registry := domain.NewExtractorRegistry(map[domain.Platform]domain.Extractor{
		domain.PlatformYouTube:  stubExtractor{},
		domain.PlatformBilibili: stubExtractor{},
	})

	downloader := app.NewDownloader(assets, registry, history, domain.SystemClock{}, log, domain.FormatMP3, 3)
	cache := app.NewCacheManager(assets, log)
	library := app.NewLibrary(store, assets, cache, downloader, domain.SystemClock{},
		rand.New(rand.NewSource(time.Now().UnixNano())), log)

	server := httptest.NewServer(api.SetupRouter(library, history, log))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(data))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func audioPayload(id string) map[string]interface{} {
	return map[string]interface{}{
		"audio": map[string]interface{}{
			"id":           id,
			"title":        "Track " + id,
			"download_url": "https://example.com/audio/" + id,
			"platform":     "youtube",
		},
	}
}

func TestAPI_DownloadAudio(t *testing.T) {
	server := setupTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/audios", audioPayload("a1"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var local map[string]interface{}
	decode(t, resp, &local)
	assert.NotEmpty(t, local["path"])

	// Downloading the same audio again reuses the cached file
	resp = postJSON(t, server.URL+"/api/v1/audios", audioPayload("a1"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var again map[string]interface{}
	decode(t, resp, &again)
	assert.Equal(t, local["path"], again["path"])
}

func TestAPI_DownloadUnknownPlatform(t *testing.T) {
	server := setupTestServer(t)

	payload := audioPayload("a1")
	payload["audio"].(map[string]interface{})["platform"] = "soundcloud"

	resp := postJSON(t, server.URL+"/api/v1/audios", payload)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ListAndDelete(t *testing.T) {
	server := setupTestServer(t)

	postJSON(t, server.URL+"/api/v1/audios", audioPayload("a1")).Body.Close()
	postJSON(t, server.URL+"/api/v1/audios", audioPayload("a2")).Body.Close()

	resp, err := http.Get(server.URL + "/api/v1/audios")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Audios []map[string]interface{} `json:"audios"`
		Count  int                      `json:"count"`
	}
	decode(t, resp, &listing)
	assert.Equal(t, 2, listing.Count)

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/audios/a1", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Deleting again yields 404
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_MarkPlayedAndCleanup(t *testing.T) {
	server := setupTestServer(t)

	postJSON(t, server.URL+"/api/v1/audios", audioPayload("a1")).Body.Close()
	postJSON(t, server.URL+"/api/v1/audios", audioPayload("a2")).Body.Close()

	resp, err := http.Post(server.URL+"/api/v1/audios/a1/played", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/api/v1/storage/usage")
	require.NoError(t, err)
	var usage map[string]interface{}
	decode(t, resp, &usage)
	assert.Equal(t, float64(2), usage["audio_count"])

	resp = postJSON(t, server.URL+"/api/v1/storage/cleanup", map[string]uint64{"max_size_mb": 0})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	decode(t, resp, &result)
	assert.Equal(t, float64(2), result["deleted_files"])

	resp, err = http.Get(server.URL + "/api/v1/audios")
	require.NoError(t, err)
	var listing struct {
		Count int `json:"count"`
	}
	decode(t, resp, &listing)
	assert.Equal(t, 0, listing.Count)
}

func TestAPI_ReadFileTraversalRejected(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/files/..%2F..%2Fetc%2Fpasswd")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DownloadHistory(t *testing.T) {
	server := setupTestServer(t)

	postJSON(t, server.URL+"/api/v1/audios", audioPayload("a1")).Body.Close()
	postJSON(t, server.URL+"/api/v1/audios", audioPayload("a1")).Body.Close()

	resp, err := http.Get(server.URL + "/api/v1/downloads/stats")
	require.NoError(t, err)
	var stats map[string]interface{}
	decode(t, resp, &stats)
	assert.Equal(t, float64(2), stats["total"])
	assert.Equal(t, float64(1), stats["completed"])
	assert.Equal(t, float64(1), stats["skipped"])

	resp, err = http.Get(server.URL + "/api/v1/downloads/history?limit=10")
	require.NoError(t, err)
	var history struct {
		Records []map[string]interface{} `json:"records"`
		Count   int                      `json:"count"`
	}
	decode(t, resp, &history)
	assert.Equal(t, 2, history.Count)
}

func TestAPI_Settings(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/settings")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var settings map[string]interface{}
	decode(t, resp, &settings)
	assert.Equal(t, "mp3", settings["default_audio_format"])
	assert.Equal(t, true, settings["auto_download_cover"])

	settings["default_audio_format"] = "m4a"
	data, err := json.Marshal(settings)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/v1/settings", bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/api/v1/settings")
	require.NoError(t, err)
	decode(t, resp, &settings)
	assert.Equal(t, "m4a", settings["default_audio_format"])

	// Subsequent downloads pick up the new default format
	resp = postJSON(t, server.URL+"/api/v1/audios", audioPayload("a1"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var local map[string]interface{}
	decode(t, resp, &local)
	path, _ := local["path"].(string)
	assert.True(t, strings.HasSuffix(path, ".m4a"), "path %q should use the updated default format", path)
}

func TestAPI_PlaylistLifecycle(t *testing.T) {
	server := setupTestServer(t)

	postJSON(t, server.URL+"/api/v1/audios", audioPayload("a1")).Body.Close()
	postJSON(t, server.URL+"/api/v1/audios", audioPayload("a2")).Body.Close()

	resp := postJSON(t, server.URL+"/api/v1/playlists", map[string]string{
		"name":     "Road Trip",
		"platform": "youtube",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var playlist map[string]interface{}
	decode(t, resp, &playlist)
	id, _ := playlist["id"].(string)
	require.NotEmpty(t, id)

	base := server.URL + "/api/v1/playlists/" + id
	postJSON(t, base+"/audios", map[string]string{"audio_id": "a1"}).Body.Close()
	postJSON(t, base+"/audios", map[string]string{"audio_id": "a2"}).Body.Close()

	resp = postJSON(t, base+"/audios", map[string]string{"audio_id": "missing"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err := http.Get(base)
	require.NoError(t, err)
	var stored map[string]interface{}
	decode(t, resp, &stored)
	audios, _ := stored["audios"].([]interface{})
	assert.Len(t, audios, 2)

	resp = postJSON(t, base+"/duplicate", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var copied map[string]interface{}
	decode(t, resp, &copied)
	assert.Equal(t, "Road Trip (Copy)", copied["name"])
	assert.NotEqual(t, id, copied["id"])

	req, _ := http.NewRequest(http.MethodDelete, base, nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
