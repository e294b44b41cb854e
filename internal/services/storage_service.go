package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService persists visitor and ID-card photos on local disk and
// hands back opaque keys. The visit engine never interprets the keys.
type StorageService struct {
	baseDir string
}

// NewStorageService creates a new storage service rooted at baseDir
func NewStorageService(baseDir string) (*StorageService, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photo storage dir: %w", err)
	}
	return &StorageService{baseDir: baseDir}, nil
}

// SavePhoto stores an uploaded photo under the tenant's directory and
// returns its storage key.
func (s *StorageService) SavePhoto(tenantID uuid.UUID, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := filepath.Join(tenantID.String(), uuid.New().String()+ext)

	path := filepath.Join(s.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create tenant photo dir: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}

	return key, nil
}

// Remove deletes a stored photo. Missing files are not an error: the
// caller may retry a cleanup that already ran.
func (s *StorageService) Remove(key string) error {
	path, err := s.PhotoPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	return nil
}

// PhotoPath resolves a storage key to an on-disk path, refusing keys that
// escape the storage root.
func (s *StorageService) PhotoPath(key string) (string, error) {
	path := filepath.Join(s.baseDir, filepath.Clean("/"+key))
	if !strings.HasPrefix(path, filepath.Clean(s.baseDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: invalid photo key", ErrValidation)
	}
	return path, nil
}
