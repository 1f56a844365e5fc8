package mocks

import (
	"context"
	"sync"

	"github.com/Eltn555/admin/domain"
)

// MockSessionStore implements domain.SessionStore interface for testing
type MockSessionStore struct {
	CheckAuthFunc   func(ctx context.Context) bool
	SendOTPFunc     func(ctx context.Context, phone string) bool
	ValidateOTPFunc func(ctx context.Context, phone, otp string) bool
	LogoutFunc      func(ctx context.Context)

	mu      sync.Mutex
	Session domain.Session
	Calls   map[string]int
}

// NewMockSessionStore creates a new MockSessionStore holding a settled,
// unauthenticated session
func NewMockSessionStore() *MockSessionStore {
	s := domain.Session{}
	s.Settle()
	return &MockSessionStore{Session: s, Calls: make(map[string]int)}
}

func (m *MockSessionStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[name]++
}

// CallCount returns how many times the named action ran
func (m *MockSessionStore) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

// SetError replaces the session error
func (m *MockSessionStore) SetError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Session.Error = msg
}

// CheckAuth re-validates the persisted token
func (m *MockSessionStore) CheckAuth(ctx context.Context) bool {
	m.record("CheckAuth")
	if m.CheckAuthFunc != nil {
		return m.CheckAuthFunc(ctx)
	}
	return false
}

// SendOTP requests a code
func (m *MockSessionStore) SendOTP(ctx context.Context, phone string) bool {
	m.record("SendOTP")
	if m.SendOTPFunc != nil {
		return m.SendOTPFunc(ctx, phone)
	}
	return true
}

// ValidateOTP verifies a code; the default authenticates
func (m *MockSessionStore) ValidateOTP(ctx context.Context, phone, otp string) bool {
	m.record("ValidateOTP")
	if m.ValidateOTPFunc != nil {
		return m.ValidateOTPFunc(ctx, phone, otp)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Session.User = &domain.User{ID: "1", Phone: phone}
	m.Session.IsAuthenticated = true
	return true
}

// Logout clears the session
func (m *MockSessionStore) Logout(ctx context.Context) {
	m.record("Logout")
	if m.LogoutFunc != nil {
		m.LogoutFunc(ctx)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Session.User = nil
	m.Session.IsAuthenticated = false
	m.Session.Error = ""
}

// ClearError drops the session error
func (m *MockSessionStore) ClearError() {
	m.record("ClearError")
	m.SetError("")
}

// Snapshot returns the current session
func (m *MockSessionStore) Snapshot() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Session
}
