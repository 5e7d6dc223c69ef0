package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/internal/domain"
	"github.com/yourusername/musicvault-go/internal/infrastructure"
)

// CacheManager computes storage usage and reclaims space by evicting the
// least-recently-played audios. It deletes files but never mutates or
// persists the catalog; stripping evicted entries is the caller's job.
type CacheManager struct {
	assets *infrastructure.AssetStore
	logger *zap.Logger
}

// NewCacheManager creates a cache manager over the given asset store
func NewCacheManager(assets *infrastructure.AssetStore, logger *zap.Logger) *CacheManager {
	return &CacheManager{assets: assets, logger: logger}
}

// Usage sums file sizes under the asset root, broken down by the audios
// and covers subtrees across all platforms. Directories that do not exist
// contribute zero.
func (m *CacheManager) Usage() (domain.StorageUsage, error) {
	usage := domain.StorageUsage{}

	root := m.assets.Root()
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if entry.IsDir() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return nil // deleted mid-walk
		}
		size := uint64(info.Size())
		usage.TotalBytes += size

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		switch subtreeOf(filepath.ToSlash(rel)) {
		case "audios":
			usage.AudioBytes += size
			usage.AudioCount++
		case "covers":
			usage.CoverBytes += size
		}
		return nil
	})
	if os.IsNotExist(err) {
		return domain.StorageUsage{}, nil
	}
	if err != nil {
		return domain.StorageUsage{}, err
	}
	return usage, nil
}

// subtreeOf classifies a root-relative path like
// assets/<platform>/audios/<file> by its third segment
func subtreeOf(rel string) string {
	parts := strings.Split(rel, "/")
	if len(parts) >= 4 && parts[0] == "assets" {
		return parts[2]
	}
	return ""
}

// Evict deletes files of the least valuable catalog entries until total
// usage is at or below budgetBytes, or the victim list is exhausted.
// Victim order: never-played entries first, then ascending last-played,
// ties in catalog order. Missing files are treated as already reclaimed.
func (m *CacheManager) Evict(catalog *domain.Catalog, budgetBytes uint64) (domain.CleanupResult, error) {
	result := domain.CleanupResult{DeletedAudios: []string{}}

	usage, err := m.Usage()
	if err != nil {
		return result, err
	}
	if usage.TotalBytes <= budgetBytes {
		return result, nil
	}

	m.logger.Info("Cache size exceeds budget, starting eviction",
		zap.Uint64("total_bytes", usage.TotalBytes),
		zap.Uint64("budget_bytes", budgetBytes))

	victims := make([]domain.LocalAudio, len(catalog.Audios))
	copy(victims, catalog.Audios)
	sort.SliceStable(victims, func(i, j int) bool {
		a, b := victims[i].LastPlayed, victims[j].LastPlayed
		if a == nil {
			return b != nil // never-played sorts before everything played
		}
		if b == nil {
			return false
		}
		return *a < *b
	})

	remaining := usage.TotalBytes
	for _, victim := range victims {
		if remaining <= budgetBytes {
			break
		}

		freed, err := m.assets.Remove(victim.Path)
		if err != nil {
			return result, err
		}
		if freed > 0 {
			result.DeletedFiles++
			result.FreedBytes += uint64(freed)
			remaining -= uint64(freed)
		}

		if victim.CoverPath != "" {
			freed, err := m.assets.Remove(victim.CoverPath)
			if err != nil {
				return result, err
			}
			if freed > 0 {
				result.DeletedFiles++
				result.FreedBytes += uint64(freed)
				remaining -= uint64(freed)
			}
		}

		result.DeletedAudios = append(result.DeletedAudios, victim.Audio.ID)
		m.logger.Info("Evicted audio",
			zap.String("id", victim.Audio.ID),
			zap.String("title", victim.Audio.Title),
			zap.Uint64("remaining_bytes", remaining))
	}

	return result, nil
}
