package infrastructure

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yourusername/musicvault-go/internal/domain"
)

const catalogFileName = "catalog.json"

// CatalogStore persists the catalog aggregate as a single JSON document.
// Loads and saves are always wholesale; there is no partial persistence.
type CatalogStore struct {
	path   string
	logger *zap.Logger
}

// NewCatalogStore creates a store writing to <appDir>/catalog.json
func NewCatalogStore(appDir string, logger *zap.Logger) *CatalogStore {
	return &CatalogStore{
		path:   filepath.Join(appDir, catalogFileName),
		logger: logger,
	}
}

// Path returns the backing file location
func (s *CatalogStore) Path() string {
	return s.path
}

// Load reads the whole catalog. If the backing file is absent, a default
// catalog is created, persisted immediately, and returned. A parse failure
// is surfaced, never silently replaced with a default.
func (s *CatalogStore) Load() (*domain.Catalog, error) {
	content, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Info("Catalog file does not exist, creating default", zap.String("path", s.path))
		catalog := domain.NewCatalog()
		if err := s.Save(catalog); err != nil {
			return nil, err
		}
		return catalog, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(content, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", s.path, err)
	}
	return &catalog, nil
}

// Save serializes the entire catalog and replaces the backing file.
// The write goes to a temporary file first and is moved into place with
// a rename, so a crash mid-write cannot truncate the catalog.
func (s *CatalogStore) Save(catalog *domain.Catalog) error {
	content, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), catalogFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp catalog file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace catalog: %w", err)
	}

	s.logger.Debug("Saved catalog",
		zap.String("path", s.path),
		zap.Int("audios", len(catalog.Audios)),
		zap.Int("playlists", len(catalog.Playlists)))
	return nil
}
