package infrastructure

import (
	"crypto/md5"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yourusername/musicvault-go/internal/domain"
)

// AssetStore computes deterministic on-disk locations for cached assets
// under an owned root directory. It has no network or catalog knowledge.
//
// Layout: <root>/assets/<platform>/audios/<key><ext>
//         <root>/assets/<platform>/covers/<basename-of-source-url>
type AssetStore struct {
	root string
}

// NewAssetStore creates a store rooted at the given directory
func NewAssetStore(root string) *AssetStore {
	return &AssetStore{root: root}
}

// Root returns the owned base directory
func (s *AssetStore) Root() string {
	return s.root
}

// Init creates the root and assets directories if they do not exist
func (s *AssetStore) Init() error {
	return os.MkdirAll(filepath.Join(s.root, "assets"), 0755)
}

// AudioKey derives the addressing key for an audio from its download URL.
// Re-deriving it for the same URL always yields the same value.
func AudioKey(downloadURL string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(downloadURL)))
}

// AudioPath returns the root-relative path for an audio file
func (s *AssetStore) AudioPath(platform domain.Platform, key string, format domain.AudioFormat) string {
	return path.Join("assets", string(platform), "audios", key+format.Extension())
}

// CoverPath returns the root-relative path for a cover file. Covers are
// addressed by the basename of their source URL, not hashed.
func (s *AssetStore) CoverPath(platform domain.Platform, coverURL string) (string, error) {
	basename := coverBasename(coverURL)
	if basename == "" {
		return "", fmt.Errorf("%w: no basename in cover URL %q", domain.ErrInvalidReference, coverURL)
	}
	return path.Join("assets", string(platform), "covers", basename), nil
}

// coverBasename extracts the final path segment of a URL, query stripped
func coverBasename(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		rawURL = u.Path
	}
	base := path.Base(rawURL)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// Exists reports whether a root-relative path is already on disk
func (s *AssetStore) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel)))
	return err == nil
}

// Abs resolves a root-relative path to an absolute one, rejecting any
// path that escapes the root with ErrInvalidPath
func (s *AssetStore) Abs(rel string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	cleanRoot := filepath.Clean(s.root)
	if full != cleanRoot && !strings.HasPrefix(full, cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes asset root", domain.ErrInvalidPath, rel)
	}
	return full, nil
}

// ReadFile reads a file by root-relative path, applying the traversal guard
// before touching the filesystem
func (s *AssetStore) ReadFile(rel string) ([]byte, error) {
	full, err := s.Abs(rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// WriteFile writes a file by root-relative path, creating parent
// directories as needed
func (s *AssetStore) WriteFile(rel string, data []byte) error {
	full, err := s.Abs(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}
	return os.WriteFile(full, data, 0644)
}

// FileSize returns the size of a file by root-relative path
func (s *AssetStore) FileSize(rel string) (int64, error) {
	full, err := s.Abs(rel)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Remove deletes a file by root-relative path and returns the bytes
// reclaimed. A missing file is not an error and reclaims zero.
func (s *AssetStore) Remove(rel string) (int64, error) {
	full, err := s.Abs(rel)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	return info.Size(), nil
}
