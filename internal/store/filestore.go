package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// FileStore keeps each collection in <dir>/<key>.json. This is the default
// backend for local single-instance deployments: no external services, and
// whole-collection writes match the Save contract exactly.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	log.Printf("✓ File store ready at %s", dir)
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Load reads the collection under key into dest. A missing file means an
// empty collection; a corrupt file is logged and treated the same way so a
// bad entry can never take the service down.
func (f *FileStore) Load(ctx context.Context, key string, dest interface{}) error {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to read collection %q, starting empty: %v", key, err)
		}
		return nil
	}
	if err := json.Unmarshal(b, dest); err != nil {
		log.Printf("Warning: collection %q is corrupt, starting empty: %v", key, err)
	}
	return nil
}

// Save writes the whole collection to a temp file and renames it into place,
// so readers never observe a partial write.
func (f *FileStore) Save(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: marshal collection %q: %v", ErrWriteFailed, key, err)
	}

	tmp, err := os.CreateTemp(f.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %q: %v", ErrWriteFailed, key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %q: %v", ErrWriteFailed, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %q: %v", ErrWriteFailed, key, err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %q: %v", ErrWriteFailed, key, err)
	}
	return nil
}
