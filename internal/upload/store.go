// Package upload manages product image files on local disk. Incoming files
// are staged first and only become permanent when the request that carried
// them succeeds; every failure path discards the staged file.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store writes uploaded images into a single directory on local disk.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates the upload directory if needed and returns a store over it.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Staged is an uploaded file that has been written to disk but not yet
// accepted. Exactly one of Commit or Discard takes effect; Discard after
// Commit is a no-op, so handlers can defer Discard unconditionally.
type Staged struct {
	store     *Store
	path      string
	committed bool
}

// Stage copies the uploaded file into the store under a fresh random name,
// keeping the original extension.
func (s *Store) Stage(src io.Reader, originalName string) (*Staged, error) {
	name := uuid.New().String() + filepath.Ext(originalName)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write staged file: %w", err)
	}

	return &Staged{store: s, path: path}, nil
}

// Path returns the on-disk path of the staged file, as persisted on the
// product document.
func (f *Staged) Path() string { return f.path }

// Commit marks the staged file as permanent.
func (f *Staged) Commit() { f.committed = true }

// Discard deletes the staged file unless it was committed. Removal failures
// are logged, never escalated.
func (f *Staged) Discard() {
	if f.committed {
		return
	}
	f.store.Remove(f.path)
}

// Remove deletes an image file from disk, best effort.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		s.logger.Warn("Failed to remove image file",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}
