package mocks

import (
	"context"
	"sync"

	"github.com/Eltn555/admin/domain"
)

// MockSessionPersistence implements domain.SessionPersistence interface for
// testing. Without overrides it keeps the token and user in memory.
type MockSessionPersistence struct {
	TokenFunc  func(ctx context.Context) (string, error)
	CookieFunc func(ctx context.Context) (*domain.Cookie, error)
	SaveFunc   func(ctx context.Context, token string, user *domain.User) error
	ClearFunc  func(ctx context.Context) error

	mu         sync.Mutex
	StoredTok  string
	StoredUser *domain.User
	Saves      int
	Clears     int
}

// NewMockSessionPersistence creates an empty MockSessionPersistence
func NewMockSessionPersistence() *MockSessionPersistence {
	return &MockSessionPersistence{}
}

// Token returns the stored token or domain.ErrNoSessionToken
func (m *MockSessionPersistence) Token(ctx context.Context) (string, error) {
	if m.TokenFunc != nil {
		return m.TokenFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoredTok == "" {
		return "", domain.ErrNoSessionToken
	}
	return m.StoredTok, nil
}

// Cookie returns a cookie for the stored token, or nil
func (m *MockSessionPersistence) Cookie(ctx context.Context) (*domain.Cookie, error) {
	if m.CookieFunc != nil {
		return m.CookieFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoredTok == "" {
		return nil, nil
	}
	return &domain.Cookie{Name: domain.TokenCookieName, Value: m.StoredTok, Path: "/"}, nil
}

// Save stores the token and user
func (m *MockSessionPersistence) Save(ctx context.Context, token string, user *domain.User) error {
	m.mu.Lock()
	m.Saves++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, token, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoredTok = token
	m.StoredUser = user
	return nil
}

// Clear drops the stored token and user
func (m *MockSessionPersistence) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.Clears++
	m.mu.Unlock()
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoredTok = ""
	m.StoredUser = nil
	return nil
}

// Stored returns the currently stored token
func (m *MockSessionPersistence) Stored() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StoredTok
}
