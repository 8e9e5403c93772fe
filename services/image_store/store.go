package image_store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for files that are not images.
var ErrUnsupportedType = errors.New("unsupported image type")

// Store keeps uploaded parcel pictures and returns stable relative paths.
type Store interface {
	Save(ctx context.Context, originalName string, content io.Reader) (string, error)
	Remove(relativePath string) error
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// DiskStore writes files below UploadDir/<Folder>.
type DiskStore struct {
	UploadDir string
	Folder    string
}

func NewDiskStore(uploadDir string) *DiskStore {
	return &DiskStore{UploadDir: uploadDir, Folder: "parcels"}
}

// Save writes content under a random name and returns "<upload dir base>/<folder>/<name>".
func (s *DiskStore) Save(ctx context.Context, originalName string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	dir := filepath.Join(s.UploadDir, s.Folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	fullPath := filepath.Join(dir, name)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return path.Join(filepath.Base(filepath.Clean(s.UploadDir)), s.Folder, name), nil
}

// Remove deletes a file previously returned by Save. Used to clean up after a failed write.
func (s *DiskStore) Remove(relativePath string) error {
	rel := strings.TrimPrefix(filepath.FromSlash(relativePath), filepath.Base(filepath.Clean(s.UploadDir))+string(filepath.Separator))
	return os.Remove(filepath.Join(s.UploadDir, rel))
}
