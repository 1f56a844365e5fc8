package mocks

import (
	"context"
	"sync"
)

// MockLocalStorage implements domain.LocalStorage interface for testing.
// Without overrides it behaves as an in-memory map.
type MockLocalStorage struct {
	GetItemFunc    func(ctx context.Context, key string) (string, bool, error)
	SetItemFunc    func(ctx context.Context, key, value string) error
	RemoveItemFunc func(ctx context.Context, keys ...string) error

	mu    sync.Mutex
	Items map[string]string
}

// NewMockLocalStorage creates a new MockLocalStorage with default behaviors
func NewMockLocalStorage() *MockLocalStorage {
	return &MockLocalStorage{Items: make(map[string]string)}
}

// GetItem returns a stored value
func (m *MockLocalStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Items[key]
	return v, ok, nil
}

// SetItem stores a value
func (m *MockLocalStorage) SetItem(ctx context.Context, key, value string) error {
	if m.SetItemFunc != nil {
		return m.SetItemFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[key] = value
	return nil
}

// RemoveItem deletes values
func (m *MockLocalStorage) RemoveItem(ctx context.Context, keys ...string) error {
	if m.RemoveItemFunc != nil {
		return m.RemoveItemFunc(ctx, keys...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.Items, k)
	}
	return nil
}

// Has reports whether key is stored
func (m *MockLocalStorage) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Items[key]
	return ok
}
