package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/internal/domain"
	"github.com/yourusername/musicvault-go/internal/infrastructure"
)

// Library is the single owner of catalog mutation. Every mutating
// operation is one atomic load → mutate → save cycle under a mutex, so
// concurrent commands serialize instead of racing on the catalog file.
type Library struct {
	mu       sync.Mutex
	store    *infrastructure.CatalogStore
	assets   *infrastructure.AssetStore
	cache    *CacheManager
	download *Downloader
	clock    domain.Clock
	rng      *rand.Rand
	logger   *zap.Logger
}

// NewLibrary creates the catalog service
func NewLibrary(
	store *infrastructure.CatalogStore,
	assets *infrastructure.AssetStore,
	cache *CacheManager,
	download *Downloader,
	clock domain.Clock,
	rng *rand.Rand,
	logger *zap.Logger,
) *Library {
	return &Library{
		store:    store,
		assets:   assets,
		cache:    cache,
		download: download,
		clock:    clock,
		rng:      rng,
		logger:   logger,
	}
}

// Catalog loads and returns the current catalog
func (l *Library) Catalog() (*domain.Catalog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Load()
}

// mutate runs one serialized load → fn → save cycle
func (l *Library) mutate(fn func(*domain.Catalog) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	catalog, err := l.store.Load()
	if err != nil {
		return err
	}
	if err := fn(catalog); err != nil {
		return err
	}
	return l.store.Save(catalog)
}

// DownloadAudio downloads one audio and appends the resulting entry to
// the catalog
func (l *Library) DownloadAudio(ctx context.Context, audio domain.Audio) (*domain.LocalAudio, error) {
	prepared, err := l.applyDefaultFormat([]domain.Audio{audio})
	if err != nil {
		return nil, err
	}

	local, err := l.download.DownloadOne(ctx, prepared[0])
	if err != nil {
		return nil, err
	}
	if err := l.mutate(func(c *domain.Catalog) error {
		c.AddAudio(*local)
		return nil
	}); err != nil {
		return nil, err
	}
	return local, nil
}

// DownloadBatch downloads many audios and appends every successful entry
// to the catalog in one save
func (l *Library) DownloadBatch(ctx context.Context, audios []domain.Audio, progress chan<- DownloadProgress) ([]BatchResult, error) {
	prepared, err := l.applyDefaultFormat(audios)
	if err != nil {
		return nil, err
	}

	results := l.download.DownloadBatch(ctx, prepared, progress)
	err = l.mutate(func(c *domain.Catalog) error {
		for _, r := range results {
			if r.Local != nil {
				c.AddAudio(*r.Local)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// applyDefaultFormat fills the catalog's configured default format into
// audios that do not declare one, reading the setting as persisted now
// rather than a startup snapshot
func (l *Library) applyDefaultFormat(audios []domain.Audio) ([]domain.Audio, error) {
	catalog, err := l.Catalog()
	if err != nil {
		return nil, err
	}
	format := catalog.DefaultFormat()

	prepared := make([]domain.Audio, len(audios))
	for i, audio := range audios {
		if audio.Format == "" {
			audio.Format = format
		}
		prepared[i] = audio
	}
	return prepared, nil
}

// Settings returns the persisted application settings
func (l *Library) Settings() (domain.Settings, error) {
	catalog, err := l.Catalog()
	if err != nil {
		return domain.Settings{}, err
	}
	return catalog.Settings, nil
}

// UpdateSettings replaces the persisted settings and saves the catalog
func (l *Library) UpdateSettings(settings domain.Settings) error {
	if settings.DefaultAudioFormat != "" &&
		!domain.ValidateFormat(domain.AudioFormat(settings.DefaultAudioFormat)) {
		return fmt.Errorf("unknown audio format %q", settings.DefaultAudioFormat)
	}
	return l.mutate(func(c *domain.Catalog) error {
		c.Settings = settings
		return nil
	})
}

// DeleteAudio removes an audio's files and its catalog entry. Returns
// whether an entry was removed.
func (l *Library) DeleteAudio(audioID string) (bool, error) {
	removed := false
	err := l.mutate(func(c *domain.Catalog) error {
		if entry := c.FindAudio(audioID); entry != nil {
			if _, err := l.assets.Remove(entry.Path); err != nil {
				return err
			}
			if entry.CoverPath != "" {
				if _, err := l.assets.Remove(entry.CoverPath); err != nil {
					return err
				}
			}
		}
		removed = c.RemoveAudio(audioID)
		return nil
	})
	return removed, err
}

// MarkPlayed bumps the play count and last-played timestamp of an audio
func (l *Library) MarkPlayed(audioID string) error {
	return l.mutate(func(c *domain.Catalog) error {
		entry := c.FindAudio(audioID)
		if entry == nil {
			return fmt.Errorf("%w: %s", domain.ErrAudioNotFound, audioID)
		}
		entry.MarkPlayed(l.clock.Now())
		return nil
	})
}

// Usage reports current storage accounting for the asset root
func (l *Library) Usage() (domain.StorageUsage, error) {
	return l.cache.Usage()
}

// Cleanup evicts least-recently-played audios until usage fits within
// maxSizeMB, then strips the evicted entries from the catalog and
// persists it
func (l *Library) Cleanup(maxSizeMB uint64) (domain.CleanupResult, error) {
	budgetBytes := maxSizeMB * 1024 * 1024

	var result domain.CleanupResult
	err := l.mutate(func(c *domain.Catalog) error {
		var evictErr error
		result, evictErr = l.cache.Evict(c, budgetBytes)
		if evictErr != nil {
			return evictErr
		}
		for _, id := range result.DeletedAudios {
			c.RemoveAudio(id)
		}
		return nil
	})
	return result, err
}

// ReadFile reads a file under the asset root by relative path, applying
// the traversal guard
func (l *Library) ReadFile(rel string) ([]byte, error) {
	return l.assets.ReadFile(rel)
}

// CreatePlaylist creates an empty playlist and persists it
func (l *Library) CreatePlaylist(name string, platform domain.Platform) (domain.LocalPlaylist, error) {
	playlist := domain.NewLocalPlaylist(name, platform, l.clock.Now())
	err := l.mutate(func(c *domain.Catalog) error {
		c.AddPlaylist(playlist)
		return nil
	})
	return playlist, err
}

// RemovePlaylist removes a playlist, reporting whether anything was removed
func (l *Library) RemovePlaylist(playlistID string) (bool, error) {
	removed := false
	err := l.mutate(func(c *domain.Catalog) error {
		removed = c.RemovePlaylist(playlistID)
		return nil
	})
	return removed, err
}

// RenamePlaylist renames a playlist
func (l *Library) RenamePlaylist(playlistID, newName string) error {
	return l.withPlaylist(playlistID, func(c *domain.Catalog, p *domain.LocalPlaylist) error {
		p.Name = newName
		p.UpdatedAt = l.clock.Now().Unix()
		return nil
	})
}

// AddToPlaylist appends a cataloged audio to a playlist
func (l *Library) AddToPlaylist(playlistID, audioID string) error {
	return l.withPlaylist(playlistID, func(c *domain.Catalog, p *domain.LocalPlaylist) error {
		entry := c.FindAudio(audioID)
		if entry == nil {
			return fmt.Errorf("%w: %s", domain.ErrAudioNotFound, audioID)
		}
		p.AddAudio(*entry, l.clock.Now())
		return nil
	})
}

// RemoveFromPlaylist removes an audio from a playlist, reporting whether
// anything was removed
func (l *Library) RemoveFromPlaylist(playlistID, audioID string) (bool, error) {
	removed := false
	err := l.withPlaylist(playlistID, func(c *domain.Catalog, p *domain.LocalPlaylist) error {
		removed = p.RemoveAudio(audioID, l.clock.Now())
		return nil
	})
	return removed, err
}

// ReorderPlaylist moves an audio to a new position, clamped to the valid range
func (l *Library) ReorderPlaylist(playlistID, audioID string, position int) error {
	return l.withPlaylist(playlistID, func(c *domain.Catalog, p *domain.LocalPlaylist) error {
		return p.Reorder(audioID, position, l.clock.Now())
	})
}

// MergePlaylists appends the source playlist's audios into the target,
// skipping duplicates
func (l *Library) MergePlaylists(targetID, sourceID string) error {
	return l.withPlaylist(targetID, func(c *domain.Catalog, target *domain.LocalPlaylist) error {
		source := c.FindPlaylist(sourceID)
		if source == nil {
			return fmt.Errorf("%w: %s", domain.ErrPlaylistNotFound, sourceID)
		}
		target.Merge(source, l.clock.Now())
		return nil
	})
}

// DuplicatePlaylist copies a playlist under a fresh identifier
func (l *Library) DuplicatePlaylist(playlistID string) (domain.LocalPlaylist, error) {
	var copied domain.LocalPlaylist
	err := l.withPlaylist(playlistID, func(c *domain.Catalog, p *domain.LocalPlaylist) error {
		copied = p.Duplicate(l.clock.Now())
		c.AddPlaylist(copied)
		return nil
	})
	return copied, err
}

// ShufflePlaylist randomizes a playlist's order
func (l *Library) ShufflePlaylist(playlistID string) error {
	return l.withPlaylist(playlistID, func(c *domain.Catalog, p *domain.LocalPlaylist) error {
		p.Shuffle(l.rng, l.clock.Now())
		return nil
	})
}

func (l *Library) withPlaylist(playlistID string, fn func(*domain.Catalog, *domain.LocalPlaylist) error) error {
	return l.mutate(func(c *domain.Catalog) error {
		playlist := c.FindPlaylist(playlistID)
		if playlist == nil {
			return fmt.Errorf("%w: %s", domain.ErrPlaylistNotFound, playlistID)
		}
		return fn(c, playlist)
	})
}
