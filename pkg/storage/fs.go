// Package storage keeps copies of rendered documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidKey is returned for empty keys or keys escaping the base directory.
var ErrInvalidKey = errors.New("invalid storage key")

// FileSystemStorage writes documents below a base directory.
type FileSystemStorage struct {
	basePath string
	logger   *zap.Logger
}

func NewFileSystemStorage(basePath string, logger *zap.Logger) (*FileSystemStorage, error) {
	if basePath == "" {
		return nil, errors.New("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %s: %w", basePath, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystemStorage{basePath: basePath, logger: logger}, nil
}

func (s *FileSystemStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.ToSlash(key))
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.basePath, filepath.FromSlash(clean)), nil
}

// Store writes data to <base>/<key> through a temporary file and returns the
// final path.
func (s *FileSystemStorage) Store(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("move %s into place: %w", key, err)
	}

	s.logger.Debug("document stored", zap.String("path", full), zap.Int("bytes", len(data)))
	return full, nil
}
