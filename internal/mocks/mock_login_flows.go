package mocks

import (
	"sync"

	"github.com/Eltn555/admin/domain"
)

// MockLoginFlows implements domain.LoginFlows interface for testing.
// With Shared set every attempt gets that flow.
type MockLoginFlows struct {
	Shared *MockLoginFlow

	mu        sync.Mutex
	Flows     map[string]*MockLoginFlow
	Requested []string
	Forgotten []string
}

// NewMockLoginFlows creates an empty MockLoginFlows
func NewMockLoginFlows() *MockLoginFlows {
	return &MockLoginFlows{Flows: make(map[string]*MockLoginFlow)}
}

// Flow returns the flow of attemptID, creating a fresh mock on first use
func (m *MockLoginFlows) Flow(attemptID string) domain.LoginFlow {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requested = append(m.Requested, attemptID)
	if m.Shared != nil {
		return m.Shared
	}
	flow, ok := m.Flows[attemptID]
	if !ok {
		flow = NewMockLoginFlow()
		m.Flows[attemptID] = flow
	}
	return flow
}

// Forget records and drops attemptID
func (m *MockLoginFlows) Forget(attemptID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Forgotten = append(m.Forgotten, attemptID)
	delete(m.Flows, attemptID)
}

// LastRequested returns the attempt ID of the latest Flow call
func (m *MockLoginFlows) LastRequested() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requested) == 0 {
		return ""
	}
	return m.Requested[len(m.Requested)-1]
}
