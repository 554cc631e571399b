// Package localfs keeps redacted output files on disk for audit. Keys are
// flattened to a single path element so callers cannot escape the archive
// directory.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Archive struct {
	basePath string
}

func New(basePath string) (*Archive, error) {
	if basePath == "" {
		basePath = "./data/archive"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Archive{basePath: basePath}, nil
}

func (a *Archive) Save(_ context.Context, key string, data io.Reader) error {
	path := filepath.Join(a.basePath, sanitizeKey(key))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

func (a *Archive) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path := filepath.Join(a.basePath, sanitizeKey(key))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return f, nil
}

func sanitizeKey(key string) string {
	key = filepath.Base(strings.TrimSpace(key))
	if key == "" || key == "." || key == string(filepath.Separator) {
		return "artifact"
	}
	return key
}
