package store

import (
	"context"
	"sync"
)

// MemoryStore keeps snapshots in a map. Used in tests and as the dev
// fallback when neither Redis nor Postgres is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]string)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[key]
	if !ok {
		return "", ErrNotFound
	}
	return snap, nil
}

func (m *MemoryStore) Save(_ context.Context, key, snapshot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[key] = snapshot
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, key)
	return nil
}

func (m *MemoryStore) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.snaps))
	for k := range m.snaps {
		keys = append(keys, k)
	}
	return keys, nil
}
