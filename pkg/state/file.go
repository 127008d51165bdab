package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore is a Store backed by a small JSON file. Writes are atomic:
// the file is replaced via rename so a crash mid-write never leaves a
// corrupt store behind.
type FileStore struct {
	path   string
	values map[string]time.Time
}

// OpenFileStore loads the store at path. A missing file yields an empty
// store (first-ever invocation); an unreadable or corrupt file is an
// error so that a broken store is surfaced rather than silently reset.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		values: make(map[string]time.Time),
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided state path is expected
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading state file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}

	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the stored timestamp for key.
func (s *FileStore) Get(key string) (time.Time, bool) {
	t, ok := s.values[key]
	return t, ok
}

// Set stores the timestamp for key and writes the file.
func (s *FileStore) Set(key string, t time.Time) error {
	s.values[key] = t
	return s.save()
}

func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating state directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing state file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing state file %s: %w", s.path, err)
	}

	return nil
}
