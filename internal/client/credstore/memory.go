package credstore

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. It does not survive restarts.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(_ context.Context, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemoryStore) Remove(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}
