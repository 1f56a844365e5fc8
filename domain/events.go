package domain

import (
	"context"
	"time"
)

// SessionEventType defines the type of session lifecycle event
type SessionEventType string

const (
	// OTP events
	OTPRequestedEvent     SessionEventType = "OTP_REQUESTED"
	OTPRequestFailedEvent SessionEventType = "OTP_REQUEST_FAILED"
	OTPVerifiedEvent      SessionEventType = "OTP_VERIFIED"
	OTPVerifyFailedEvent  SessionEventType = "OTP_VERIFICATION_FAILED"

	// Session events
	SessionRestoredEvent SessionEventType = "SESSION_RESTORED"
	SessionRejectedEvent SessionEventType = "SESSION_REJECTED"
	SessionAbsentEvent   SessionEventType = "SESSION_ABSENT"
	LogoutEvent          SessionEventType = "LOGOUT"
)

// SessionEvent records one transition of the session store
type SessionEvent struct {
	EventType SessionEventType       `json:"event_type"`
	UserID    string                 `json:"user_id,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// EventRecorder receives session lifecycle events
type EventRecorder interface {
	Record(ctx context.Context, event *SessionEvent)
}

// NewSessionEvent creates a new event with common fields populated
func NewSessionEvent(eventType SessionEventType) *SessionEvent {
	return &SessionEvent{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError marks the event failed and keeps the error text
func (e *SessionEvent) WithError(err error) *SessionEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithUser sets the user fields
func (e *SessionEvent) WithUser(u *User) *SessionEvent {
	if u != nil {
		e.UserID = u.ID
		e.Phone = u.Phone
	}
	return e
}

// WithPhone sets the phone field
func (e *SessionEvent) WithPhone(phone string) *SessionEvent {
	e.Phone = phone
	return e
}

// WithMetadata adds metadata to the event
func (e *SessionEvent) WithMetadata(key string, value interface{}) *SessionEvent {
	e.Metadata[key] = value
	return e
}
