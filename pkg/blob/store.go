package blob

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Read when no blob exists at the location.
var ErrNotFound = errors.New("blob not found")

// Store is an opaque key-value blob store addressed by a location string.
// The index layer persists through this interface only, so the backing
// medium (local disk, object storage) stays swappable.
type Store interface {
	Read(location string) ([]byte, error)
	Write(location string, data []byte) error
	Exists(location string) (bool, error)
}

// FSStore persists blobs as files under a base directory.
type FSStore struct {
	baseDir string
}

func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

func (s *FSStore) path(location string) string {
	return filepath.Join(s.baseDir, filepath.Clean("/"+location))
}

func (s *FSStore) Read(location string) ([]byte, error) {
	data, err := os.ReadFile(s.path(location))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
		}
		return nil, err
	}
	return data, nil
}

// Write replaces the blob atomically: a partially written file is never
// visible under the final location.
func (s *FSStore) Write(location string, data []byte) error {
	target := s.path(location)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (s *FSStore) Exists(location string) (bool, error) {
	_, err := os.Stat(s.path(location))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// MemStore is an in-memory Store used by tests and as a null backend.
// Safe for concurrent use.
type MemStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string][]byte)}
}

func (s *MemStore) Read(location string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[location]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemStore) Write(location string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[location] = cp
	return nil
}

func (s *MemStore) Exists(location string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[location]
	return ok, nil
}
