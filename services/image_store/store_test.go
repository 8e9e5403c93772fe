package image_store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveReturnsRelativePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s := NewDiskStore(dir)

	rel, err := s.Save(context.Background(), "Photo.JPG", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(rel, "uploads/parcels/") || !strings.HasSuffix(rel, ".jpg") {
		t.Fatalf("unexpected path %q", rel)
	}

	b, err := os.ReadFile(filepath.Join(dir, "parcels", filepath.Base(rel)))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(b) != "jpeg-bytes" {
		t.Fatalf("content mismatch: %q", b)
	}

	if err := s.Remove(rel); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "parcels", filepath.Base(rel))); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err=%v", err)
	}
}

func TestSaveRejectsNonImages(t *testing.T) {
	s := NewDiskStore(t.TempDir())
	_, err := s.Save(context.Background(), "payload.exe", strings.NewReader("x"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestSaveNamesAreUnique(t *testing.T) {
	s := NewDiskStore(t.TempDir())
	a, err := s.Save(context.Background(), "a.png", strings.NewReader("1"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := s.Save(context.Background(), "a.png", strings.NewReader("2"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if a == b {
		t.Fatalf("two saves returned the same path %q", a)
	}
}
