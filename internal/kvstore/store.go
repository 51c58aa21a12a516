// Package kvstore provides the two storage namespaces the app relies on:
// a persistent one that survives restarts and a session-scoped one that is
// cleared on logout. Values are JSON round-tripped. None of the operations
// return errors: storage faults are logged and reported as false / not-found
// so callers always end up in a usable, if degraded, state.
package kvstore

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

type Store interface {
	// Set serializes v and stores it under key. Reports success.
	Set(ctx context.Context, key string, v any) bool
	// Get deserializes the stored value into dest. Reports whether a value
	// was found and decoded; dest is untouched otherwise.
	Get(ctx context.Context, key string, dest any) bool
	Remove(ctx context.Context, key string) bool
	Clear(ctx context.Context) bool
}

// MemoryStore keeps blobs in a map. Used in tests and when the process is
// started without Postgres/redis configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Set(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("kvstore: marshal %q: %v", key, err)
		return false
	}
	s.mu.Lock()
	s.data[key] = data
	s.mu.Unlock()
	return true
}

func (s *MemoryStore) Get(ctx context.Context, key string, dest any) bool {
	s.mu.RLock()
	data, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("kvstore: unmarshal %q: %v", key, err)
		return false
	}
	return true
}

func (s *MemoryStore) Remove(ctx context.Context, key string) bool {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return true
}

func (s *MemoryStore) Clear(ctx context.Context) bool {
	s.mu.Lock()
	s.data = make(map[string][]byte)
	s.mu.Unlock()
	return true
}
