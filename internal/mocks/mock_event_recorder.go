package mocks

import (
	"context"
	"sync"

	"github.com/Eltn555/admin/domain"
)

// MockEventRecorder implements domain.EventRecorder and keeps every event
type MockEventRecorder struct {
	mu     sync.Mutex
	Events []*domain.SessionEvent
}

// NewMockEventRecorder creates an empty recorder
func NewMockEventRecorder() *MockEventRecorder {
	return &MockEventRecorder{}
}

// Record stores the event
func (m *MockEventRecorder) Record(ctx context.Context, event *domain.SessionEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Types returns the recorded event types in order
func (m *MockEventRecorder) Types() []domain.SessionEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.SessionEventType, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.EventType
	}
	return out
}
