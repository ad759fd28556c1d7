// Package kvstore provides the namespaced key/value backends used by the
// render cache. Backends are strictly an optimization: callers treat every
// backend error as a cache miss and recompute.
package kvstore

import (
	"context"
	"strings"
	"sync"
)

// Store is a namespaced key/value cache backend.
type Store interface {
	// Get returns the value for key. The boolean is false on a miss.
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Put(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	// Clear removes every key in the namespace and returns the count.
	Clear(ctx context.Context, namespace string) (int, error)
	// ClearPrefix removes keys with the given prefix and returns the count.
	ClearPrefix(ctx context.Context, namespace, prefix string) (int, error)
	Close() error
}

// MemoryStore is an in-process Store for tests and cache-disabled
// deployments.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{namespaces: make(map[string]map[string]string)}
}

// Get retrieves a value from the store.
func (s *MemoryStore) Get(_ context.Context, namespace, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.namespaces[namespace][key]

	return val, ok, nil
}

// Put stores a value in the store.
func (s *MemoryStore) Put(_ context.Context, namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		ns = make(map[string]string)
		s.namespaces[namespace] = ns
	}

	ns[key] = value

	return nil
}

// Delete removes a value from the store.
func (s *MemoryStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.namespaces[namespace], key)

	return nil
}

// Clear removes every key in the namespace.
func (s *MemoryStore) Clear(_ context.Context, namespace string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.namespaces[namespace])
	delete(s.namespaces, namespace)

	return count, nil
}

// ClearPrefix removes keys starting with prefix from the namespace.
func (s *MemoryStore) ClearPrefix(_ context.Context, namespace, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key := range s.namespaces[namespace] {
		if strings.HasPrefix(key, prefix) {
			delete(s.namespaces[namespace], key)
			count++
		}
	}

	return count, nil
}

// Close is a no-op for the in-process store.
func (s *MemoryStore) Close() error {
	return nil
}
