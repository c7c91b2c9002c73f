package cache

import (
	"context"
	"sync"
)

// DefaultMemoryEntries bounds the in-memory store
const DefaultMemoryEntries = 1024

// MemoryStore is an in-process Store. When full, the oldest entry is evicted.
type MemoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	order   []string
	maxSize int
}

// NewMemoryStore creates a store holding at most maxEntries values.
// A non-positive size uses DefaultMemoryEntries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &MemoryStore{
		data:    make(map[string][]byte),
		maxSize: maxEntries,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.data[key]; !exists {
		if len(m.order) >= m.maxSize {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.data, oldest)
		}
		m.order = append(m.order, key)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Len returns the number of cached entries
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
