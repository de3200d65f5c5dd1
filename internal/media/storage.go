// Package media persists uploaded video files and hands back stable URLs.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipers-engine/internal/common/config"
)

// Storage saves raw uploaded media and returns the URL it will be served from.
type Storage interface {
	Save(name string, data []byte) (string, error)
	Remove(name string) error
}

// DiskStorage writes uploads under a configured directory.
type DiskStorage struct {
	dir     string
	baseURL string
}

func NewDiskStorage(cfg config.MediaConfig) (*DiskStorage, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStorage{
		dir:     cfg.UploadDir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// Save writes the file and returns its public URL. The name must be a bare
// file name; path traversal is rejected.
func (s *DiskStorage) Save(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid media name %q", name)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *DiskStorage) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid media name %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
