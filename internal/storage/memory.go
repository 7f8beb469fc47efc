package storage

import (
	"context"
	"sync"
)

// MemoryStore is a mutex-guarded map. Nothing survives Close.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return clone(v), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = clone(value)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) List(_ context.Context) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		out[k] = clone(v)
	}
	return out, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	return nil
}

// Atomic stages writes and applies them under one lock when fn succeeds.
func (m *MemoryStore) Atomic(ctx context.Context, fn func(ctx context.Context, w Writer) error) error {
	staged := &stagedWriter{}
	if err := fn(ctx, staged); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range staged.ops {
		if op.delete {
			delete(m.data, op.key)
			continue
		}
		m.data[op.key] = op.value
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }

type stagedOp struct {
	key    string
	value  []byte
	delete bool
}

type stagedWriter struct {
	ops []stagedOp
}

func (s *stagedWriter) Set(_ context.Context, key string, value []byte) error {
	s.ops = append(s.ops, stagedOp{key: key, value: clone(value)})
	return nil
}

func (s *stagedWriter) Delete(_ context.Context, key string) error {
	s.ops = append(s.ops, stagedOp{key: key, delete: true})
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return append([]byte(nil), b...)
}
