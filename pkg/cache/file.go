package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/matzehuels/swcatalog/pkg/observability"
)

// FileStore implements a file-based snapshot store for CLI usage.
// Each kind is a single JSON file; writes go to a temporary file in the same
// directory which is then renamed over the old snapshot, so readers never
// observe a half-written document.
type FileStore struct {
	paths Paths
	hooks observability.CacheHooks
}

// NewFileStore creates a store over paths. Directories are created on first write.
func NewFileStore(paths Paths, hooks observability.CacheHooks) *FileStore {
	if hooks == nil {
		hooks = observability.NoopCacheHooks{}
	}
	return &FileStore{paths: paths, hooks: hooks}
}

// Paths returns the files the store reads and writes.
func (s *FileStore) Paths() Paths { return s.paths }

// Read decodes the snapshot for kind into v.
func (s *FileStore) Read(ctx context.Context, kind Kind, v any) error {
	path := s.paths.For(kind)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.hooks.OnCacheMiss(ctx, kind.String())
		return ErrCacheMiss
	}
	if err != nil {
		s.hooks.OnCacheMiss(ctx, kind.String())
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.hooks.OnCacheMiss(ctx, kind.String())
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	s.hooks.OnCacheHit(ctx, kind.String())
	return nil
}

// Write replaces the snapshot for kind with the JSON encoding of v.
func (s *FileStore) Write(ctx context.Context, kind Kind, v any) error {
	path := s.paths.For(kind)

	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	s.hooks.OnCacheSet(ctx, kind.String(), len(data))
	return nil
}

// Clear removes every snapshot file. Missing files are not an error.
func (s *FileStore) Clear(ctx context.Context) error {
	var errList []error
	for _, kind := range Kinds {
		err := os.Remove(s.paths.For(kind))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
