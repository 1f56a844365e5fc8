package mocks

import (
	"context"
	"sync"

	"github.com/Eltn555/admin/domain"
)

// MockCookieStore implements domain.CookieStore interface for testing
type MockCookieStore struct {
	GetFunc    func(ctx context.Context, name string) (*domain.Cookie, error)
	SetFunc    func(ctx context.Context, cookie *domain.Cookie) error
	RemoveFunc func(ctx context.Context, name string) error

	mu      sync.Mutex
	Cookies map[string]domain.Cookie
}

// NewMockCookieStore creates a new MockCookieStore with default behaviors
func NewMockCookieStore() *MockCookieStore {
	return &MockCookieStore{Cookies: make(map[string]domain.Cookie)}
}

// Get returns a stored cookie
func (m *MockCookieStore) Get(ctx context.Context, name string) (*domain.Cookie, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Cookies[name]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// Set stores a cookie
func (m *MockCookieStore) Set(ctx context.Context, cookie *domain.Cookie) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, cookie)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cookies[cookie.Name] = *cookie
	return nil
}

// Remove deletes a cookie
func (m *MockCookieStore) Remove(ctx context.Context, name string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Cookies, name)
	return nil
}
