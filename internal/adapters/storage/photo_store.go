package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sponsorregistration/internal/domain"
)

type diskPhotoStore struct {
	dir string
}

// NewDiskPhotoStore returns a PhotoStore writing files under dir,
// creating the directory if needed. Keys are expected to be already
// sanitized base names; anything resolving outside dir is rejected.
func NewDiskPhotoStore(dir string) (domain.PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %q: %w", dir, err)
	}
	return &diskPhotoStore{dir: dir}, nil
}

func (s *diskPhotoStore) Save(key string, content io.Reader) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create photo file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, content); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write photo file: %w", err)
	}
	return nil
}

func (s *diskPhotoStore) Remove(key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove photo file: %w", err)
	}
	return nil
}

func (s *diskPhotoStore) resolve(key string) (string, error) {
	if key == "" || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid photo key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}
