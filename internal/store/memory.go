package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process backend used by tests and the seed tool. It
// round-trips values through JSON so serialization behaves exactly like the
// durable backends.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte

	// FailWrites makes every Save return ErrWriteFailed, for exercising the
	// degraded "changes not saved" path.
	FailWrites bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Load(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return nil
	}
	return nil
}

func (m *MemoryStore) Save(ctx context.Context, key string, value interface{}) error {
	if m.FailWrites {
		return ErrWriteFailed
	}
	b, err := json.Marshal(value)
	if err != nil {
		return ErrWriteFailed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}
