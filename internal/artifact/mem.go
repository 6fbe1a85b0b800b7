package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// MemStore is an in-memory Store for tests. Per-key error injection lets
// tests exercise the storage-failure paths without a real backend.
type MemStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// Errs, when non-nil, forces every operation on the listed key to fail
	// with the given error.
	Errs map[string]error
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string][]byte)}
}

func (s *MemStore) injected(key string) error {
	if s.Errs == nil {
		return nil
	}
	return s.Errs[key]
}

func (s *MemStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(key); err != nil {
		return false, &StorageError{Op: "exists", Key: key, Err: err}
	}
	_, ok := s.objects[key]
	return ok, nil
}

func (s *MemStore) GetBytes(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(key); err != nil {
		return nil, &StorageError{Op: "get", Key: key, Err: err}
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemStore) PutBytes(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(key); err != nil {
		return &StorageError{Op: "put", Key: key, Err: err}
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = stored
	return nil
}

func (s *MemStore) Stat(_ context.Context, key string) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(key); err != nil {
		return Info{}, &StorageError{Op: "stat", Key: key, Err: err}
	}
	data, ok := s.objects[key]
	if !ok {
		return Info{}, ErrNotFound
	}
	return Info{Key: key, Size: int64(len(data)), Version: contentVersion(data)}, nil
}

// PutBytesIf implements ConditionalStore. An empty version means
// "key must not exist yet".
func (s *MemStore) PutBytesIf(_ context.Context, key string, data []byte, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(key); err != nil {
		return &StorageError{Op: "put", Key: key, Err: err}
	}
	current, ok := s.objects[key]
	switch {
	case !ok && version != "":
		return ErrPrecondition
	case ok && contentVersion(current) != version:
		return ErrPrecondition
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = stored
	return nil
}

// contentVersion derives a deterministic version token from object bytes.
func contentVersion(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
