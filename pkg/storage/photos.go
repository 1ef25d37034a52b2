package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PhotoStore keeps professor photos on disk under a base directory. The
// data layer only ever stores and returns the relative path string.
type PhotoStore struct {
	baseDir string
}

// NewPhotoStore ensures the photo directory exists and returns a handle.
func NewPhotoStore(baseDir string) (*PhotoStore, error) {
	if baseDir == "" {
		baseDir = "./data/photos"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create photos directory: %w", err)
	}
	return &PhotoStore{baseDir: baseDir}, nil
}

// Save copies the uploaded image into the store under a generated name and
// returns the relative path to persist on the professor record.
func (s *PhotoStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext

	file, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write photo file: %w", err)
	}
	return name, nil
}

// Open returns a read-only handle for a stored photo.
func (s *PhotoStore) Open(name string) (*os.File, error) {
	file, err := os.Open(s.resolve(name))
	if err != nil {
		return nil, fmt.Errorf("open photo file: %w", err)
	}
	return file, nil
}

// Delete removes a stored photo if present.
func (s *PhotoStore) Delete(name string) error {
	if name == "" {
		return nil
	}
	if err := os.Remove(s.resolve(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete photo file: %w", err)
	}
	return nil
}

// Path exposes the underlying absolute path.
func (s *PhotoStore) Path(name string) string {
	return s.resolve(name)
}

func (s *PhotoStore) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.baseDir, name)
}
