package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// MemoryStore keeps timelines in a map. Thread-safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[name] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.items[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	// Return a copy to prevent mutation.
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[name]; !ok {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	delete(s.items, name)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored timelines.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
