package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Filesystem is a Transport backed by a local or mounted-network directory,
// used for single-machine workflows and tests. Keys are sanitized to a
// single path segment so callers cannot escape root via "..".
type Filesystem struct {
	root string
}

// NewFilesystem returns a Filesystem transport rooted at dir. dir is created
// if missing.
func NewFilesystem(dir string) (*Filesystem, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("transport: create root: %w", err)
	}
	return &Filesystem{root: dir}, nil
}

func (f *Filesystem) path(key string) string {
	return filepath.Join(f.root, filepath.Base(key))
}

func (f *Filesystem) Push(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(f.root, ".push-*")
	if err != nil {
		return fmt.Errorf("transport: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("transport: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("transport: close: %w", err)
	}
	if err := os.Rename(tmpPath, f.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("transport: rename: %w", err)
	}
	return nil
}

func (f *Filesystem) Pull(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, fmt.Errorf("transport: read %s: %w", key, err)
	}
	return data, nil
}
