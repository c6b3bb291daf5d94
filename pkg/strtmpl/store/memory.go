package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps variables in memory.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]map[string]Variable // scope -> name -> variable
	closed bool
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]Variable),
	}
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, scope, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if m.data[scope] == nil {
		m.data[scope] = make(map[string]Variable)
	}

	v, ok := m.data[scope][name]
	if !ok {
		v = Variable{ID: uuid.New().String(), Scope: scope, Name: name}
	}
	v.Value = value
	v.UpdatedAt = time.Now().UTC()
	m.data[scope][name] = v
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, scope, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", ErrStoreClosed
	}

	v, ok := m.data[scope][name]
	if !ok {
		return "", ErrNotFound
	}
	return v.Value, nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context, scope string) ([]Variable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	out := make([]Variable, 0, len(m.data[scope]))
	for _, v := range m.data[scope] {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, scope, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data[scope], name)
	return nil
}

// DeleteScope implements Store.
func (m *MemoryStore) DeleteScope(_ context.Context, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, scope)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}
