// Package storage persists uploaded candidature documents and hands back the
// opaque reference stored on the candidature record.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store saves uploaded documents.
type Store interface {
	// Save writes the document and returns its opaque reference
	// (a local path under /uploads, or an object URL for S3).
	Save(ctx context.Context, filename string, data []byte) (string, error)
	// Remove deletes a previously saved document by its reference, so a
	// rejected submission does not leave its document behind.
	Remove(ctx context.Context, ref string) error
}

// DiskStore writes documents under a local directory served at /uploads.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(_ context.Context, filename string, data []byte) (string, error) {
	name := uniqueName(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return "/uploads/" + name, nil
}

func (s *DiskStore) Remove(_ context.Context, ref string) error {
	name := filepath.Base(strings.TrimPrefix(ref, "/uploads/"))
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("storage: invalid reference %q", ref)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("storage: remove file: %w", err)
	}
	return nil
}

// uniqueName keeps the original extension but replaces the rest of the name,
// so uploads cannot collide or traverse paths.
func uniqueName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}
