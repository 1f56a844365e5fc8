package mocks

import (
	"context"
	"sync"

	"github.com/Eltn555/admin/domain"
)

// MockLoginFlow implements domain.LoginFlow interface for testing
type MockLoginFlow struct {
	RequestCodeFunc func(ctx context.Context, phone string) error
	ResendFunc      func(ctx context.Context) error
	VerifyFunc      func(ctx context.Context, otp string) error

	mu        sync.Mutex
	ViewState domain.LoginView
	Notices   []domain.Notice
	Calls     map[string]int
	LastPhone string
	LastOTP   string
}

// NewMockLoginFlow creates a MockLoginFlow at the phone-entry step
func NewMockLoginFlow() *MockLoginFlow {
	return &MockLoginFlow{
		ViewState: domain.LoginView{Step: domain.StepPhoneEntry},
		Calls:     make(map[string]int),
	}
}

func (m *MockLoginFlow) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[name]++
}

// CallCount returns how many times the named operation ran
func (m *MockLoginFlow) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

// RequestCode records the phone and moves to otp-entry
func (m *MockLoginFlow) RequestCode(ctx context.Context, phone string) error {
	m.record("RequestCode")
	m.mu.Lock()
	m.LastPhone = phone
	m.mu.Unlock()
	if m.RequestCodeFunc != nil {
		return m.RequestCodeFunc(ctx, phone)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ViewState = domain.LoginView{Step: domain.StepOTPEntry, Phone: phone, RemainingSeconds: 600}
	return nil
}

// Resend requests a new code
func (m *MockLoginFlow) Resend(ctx context.Context) error {
	m.record("Resend")
	if m.ResendFunc != nil {
		return m.ResendFunc(ctx)
	}
	return nil
}

// Verify records the code; the default succeeds
func (m *MockLoginFlow) Verify(ctx context.Context, otp string) error {
	m.record("Verify")
	m.mu.Lock()
	m.LastOTP = otp
	m.mu.Unlock()
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, otp)
	}
	return nil
}

// ChangeNumber returns to phone-entry
func (m *MockLoginFlow) ChangeNumber() {
	m.record("ChangeNumber")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ViewState = domain.LoginView{Step: domain.StepPhoneEntry}
}

// View returns the configured view
func (m *MockLoginFlow) View() domain.LoginView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ViewState
}

// DrainNotices returns and clears the configured notices
func (m *MockLoginFlow) DrainNotices() []domain.Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.Notices
	m.Notices = nil
	return out
}
