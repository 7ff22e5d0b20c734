package quota

import (
	"context"
	"sync"
)

// MemoryStore keeps the count in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	count int
	saved bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return 0, ErrNotFound
	}
	return m.count, nil
}

func (m *MemoryStore) Save(ctx context.Context, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count = count
	m.saved = true
	return nil
}
