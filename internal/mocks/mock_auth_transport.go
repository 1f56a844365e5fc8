package mocks

import (
	"context"
	"sync"

	"github.com/Eltn555/admin/domain"
)

// MockAuthTransport implements domain.AuthTransport interface for testing
type MockAuthTransport struct {
	SendOTPFunc       func(ctx context.Context, phone string) (*domain.SendOTPResult, error)
	VerifyOTPFunc     func(ctx context.Context, phone, otp string) (*domain.VerifyOTPResult, error)
	ValidateTokenFunc func(ctx context.Context) (*domain.User, error)
	LogoutFunc        func(ctx context.Context) error

	mu    sync.Mutex
	Calls map[string]int
}

// NewMockAuthTransport creates a new MockAuthTransport with default behaviors
func NewMockAuthTransport() *MockAuthTransport {
	return &MockAuthTransport{Calls: make(map[string]int)}
}

func (m *MockAuthTransport) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[name]++
}

// CallCount returns how many times the named operation ran
func (m *MockAuthTransport) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

// SendOTP requests a code
func (m *MockAuthTransport) SendOTP(ctx context.Context, phone string) (*domain.SendOTPResult, error) {
	m.record("SendOTP")
	if m.SendOTPFunc != nil {
		return m.SendOTPFunc(ctx, phone)
	}
	return &domain.SendOTPResult{PhoneNumber: phone}, nil
}

// VerifyOTP exchanges a code for a session
func (m *MockAuthTransport) VerifyOTP(ctx context.Context, phone, otp string) (*domain.VerifyOTPResult, error) {
	m.record("VerifyOTP")
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, phone, otp)
	}
	// Default behavior: accept any code
	return &domain.VerifyOTPResult{
		Token: "mock_session_token",
		User:  &domain.User{ID: "1", Phone: phone},
	}, nil
}

// ValidateToken confirms the attached token
func (m *MockAuthTransport) ValidateToken(ctx context.Context) (*domain.User, error) {
	m.record("ValidateToken")
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx)
	}
	return &domain.User{ID: "1", Phone: "901234567"}, nil
}

// Logout ends the server-side session
func (m *MockAuthTransport) Logout(ctx context.Context) error {
	m.record("Logout")
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}
