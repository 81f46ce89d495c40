package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OSFileSystem uses the local disk. Writes go to a temporary file in the
// target directory that is renamed into place.
type OSFileSystem struct{}

// ReadFile implements FileSystem.
func (OSFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-selected document path
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile implements FileSystem.
func (OSFileSystem) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil { //nolint:gosec // documents are meant to be shared
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// StaticDialog answers with fixed paths, for callers that already know
// where to read or write. An empty path is treated as a cancellation.
type StaticDialog struct {
	Save string
	Open string
}

// SavePath implements Dialog.
func (d StaticDialog) SavePath(_ context.Context, _ string, _ Filter) (string, error) {
	if strings.TrimSpace(d.Save) == "" {
		return "", ErrCanceled
	}
	return d.Save, nil
}

// OpenPath implements Dialog.
func (d StaticDialog) OpenPath(_ context.Context, _ Filter) (string, error) {
	if strings.TrimSpace(d.Open) == "" {
		return "", ErrCanceled
	}
	return d.Open, nil
}

// WithExtension appends ext to path unless it already ends with it.
func WithExtension(path, ext string) string {
	if ext == "" || strings.EqualFold(filepath.Ext(path), ext) {
		return path
	}
	return path + ext
}
