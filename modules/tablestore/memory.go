package tablestore

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps entities in process memory. Version tags are random
// UUIDs, so they carry no ordering.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Entry)}
}

// Get returns a copy of the stored entry.
func (s *MemoryStore) Get(_ context.Context, collection, key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.collections[collection][key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return copyEntry(e), nil
}

// Insert stores a new entity.
func (s *MemoryStore) Insert(_ context.Context, collection, key string, value []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	if _, ok := c[key]; ok {
		return "", ErrConflict
	}
	version := uuid.NewString()
	c[key] = Entry{Key: key, Value: slices.Clone(value), Version: version}
	return version, nil
}

// Put replaces an entity guarded by its version tag.
func (s *MemoryStore) Put(_ context.Context, collection, key string, value []byte, expectedVersion string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	current, ok := c[key]
	if !ok || current.Version != expectedVersion {
		return "", ErrVersionMismatch
	}
	version := uuid.NewString()
	c[key] = Entry{Key: key, Value: slices.Clone(value), Version: version}
	return version, nil
}

// Delete removes an entity.
func (s *MemoryStore) Delete(_ context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collections[collection]
	if _, ok := c[key]; !ok {
		return ErrNotFound
	}
	delete(c, key)
	return nil
}

// Query scans the collection.
func (s *MemoryStore) Query(_ context.Context, collection string, match KeyPredicate) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for key, e := range s.collections[collection] {
		if match(key) {
			out = append(out, copyEntry(e))
		}
	}
	return sortEntries(out), nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) collection(name string) map[string]Entry {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]Entry)
		s.collections[name] = c
	}
	return c
}

func copyEntry(e Entry) Entry {
	e.Value = slices.Clone(e.Value)
	return e
}
