package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/logging"
)

// Fallback messages stored in Session.Error when the cause carries none
const (
	msgSendOTPFailed = "Failed to send OTP"
	msgInvalidOTP    = "Invalid OTP"
	msgPersistFailed = "Failed to persist session"
)

// SessionStoreImpl implements domain.SessionStore. State is guarded by mu;
// backend calls run without the lock, so the last call to settle wins.
type SessionStoreImpl struct {
	transport   domain.AuthTransport
	persistence domain.SessionPersistence
	recorder    domain.EventRecorder
	logger      *zap.Logger

	mu    sync.RWMutex
	state domain.Session
}

// NewSessionStore creates a new session store in the unknown state
func NewSessionStore(transport domain.AuthTransport, persistence domain.SessionPersistence, recorder domain.EventRecorder, logger *zap.Logger) *SessionStoreImpl {
	return &SessionStoreImpl{
		transport:   transport,
		persistence: persistence,
		recorder:    recorder,
		logger:      logging.OrNop(logger).Named("session"),
		state:       domain.NewSession(),
	}
}

func (s *SessionStoreImpl) record(ctx context.Context, event *domain.SessionEvent) {
	if s.recorder != nil {
		s.recorder.Record(ctx, event)
	}
}

// begin enters the loading state and clears any previous error
func (s *SessionStoreImpl) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settle()
	s.state.IsLoading = true
	s.state.Error = ""
}

func (s *SessionStoreImpl) update(fn func(st *domain.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *SessionStoreImpl) signOut(st *domain.Session) {
	st.User = nil
	st.IsAuthenticated = false
	st.IsLoading = false
}

// CheckAuth re-validates the persisted token. Without a token no backend
// call is made. A rejected token clears the persisted session.
func (s *SessionStoreImpl) CheckAuth(ctx context.Context) bool {
	if _, err := s.persistence.Token(ctx); err != nil {
		if !errors.Is(err, domain.ErrNoSessionToken) {
			s.logger.Warn("read session token", zap.Error(err))
		}
		s.update(func(st *domain.Session) {
			st.Settle()
			s.signOut(st)
		})
		s.record(ctx, domain.NewSessionEvent(domain.SessionAbsentEvent))
		return false
	}

	// loading only; an earlier error stays visible
	s.update(func(st *domain.Session) {
		st.Settle()
		st.IsLoading = true
	})
	user, err := s.transport.ValidateToken(ctx)
	if err != nil {
		if clearErr := s.persistence.Clear(ctx); clearErr != nil {
			s.logger.Error("clear rejected session", zap.Error(clearErr))
		}
		s.update(s.signOut)
		s.record(ctx, domain.NewSessionEvent(domain.SessionRejectedEvent).WithError(err))
		return false
	}

	s.update(func(st *domain.Session) {
		st.User = user
		st.IsAuthenticated = true
		st.IsLoading = false
	})
	s.record(ctx, domain.NewSessionEvent(domain.SessionRestoredEvent).WithUser(user))
	return true
}

// SendOTP requests a code for phone. Authentication state is untouched.
func (s *SessionStoreImpl) SendOTP(ctx context.Context, phone string) bool {
	s.begin()
	_, err := s.transport.SendOTP(ctx, phone)
	if err != nil {
		s.update(func(st *domain.Session) {
			st.IsLoading = false
			st.Error = domain.ErrorMessage(err, msgSendOTPFailed)
		})
		s.record(ctx, domain.NewSessionEvent(domain.OTPRequestFailedEvent).WithPhone(phone).WithError(err))
		return false
	}

	s.update(func(st *domain.Session) { st.IsLoading = false })
	s.record(ctx, domain.NewSessionEvent(domain.OTPRequestedEvent).WithPhone(phone))
	return true
}

// ValidateOTP verifies the code and persists the returned session. The
// store is authenticated only once the token is saved.
func (s *SessionStoreImpl) ValidateOTP(ctx context.Context, phone, otp string) bool {
	s.begin()
	result, err := s.transport.VerifyOTP(ctx, phone, otp)
	if err != nil {
		s.update(func(st *domain.Session) {
			st.IsLoading = false
			st.Error = domain.ErrorMessage(err, msgInvalidOTP)
		})
		s.record(ctx, domain.NewSessionEvent(domain.OTPVerifyFailedEvent).WithPhone(phone).WithError(err))
		return false
	}

	if err := s.persistence.Save(ctx, result.Token, result.User); err != nil {
		s.logger.Error("persist session", zap.String("phone", phone), zap.Error(err))
		s.update(func(st *domain.Session) {
			st.IsLoading = false
			st.Error = msgPersistFailed
		})
		s.record(ctx, domain.NewSessionEvent(domain.OTPVerifyFailedEvent).
			WithPhone(phone).
			WithError(err).
			WithMetadata("stage", "persist"))
		return false
	}

	s.update(func(st *domain.Session) {
		st.User = result.User
		st.IsAuthenticated = true
		st.IsLoading = false
	})
	s.record(ctx, domain.NewSessionEvent(domain.OTPVerifiedEvent).WithUser(result.User))
	return true
}

// Logout ends the session. A failed backend logout is logged and the local
// session is cleared regardless.
func (s *SessionStoreImpl) Logout(ctx context.Context) {
	s.begin()
	user := s.Snapshot().User

	event := domain.NewSessionEvent(domain.LogoutEvent).WithUser(user)
	if err := s.transport.Logout(ctx); err != nil {
		s.logger.Warn("backend logout failed, clearing local session", zap.Error(err))
		event.WithMetadata("backend_error", err.Error())
	}
	if err := s.persistence.Clear(ctx); err != nil {
		s.logger.Error("clear session", zap.Error(err))
	}

	s.update(func(st *domain.Session) {
		s.signOut(st)
		st.Error = ""
	})
	s.record(ctx, event)
}

// ClearError drops the current error message
func (s *SessionStoreImpl) ClearError() {
	s.update(func(st *domain.Session) { st.Error = "" })
}

// Snapshot returns a copy of the current session
func (s *SessionStoreImpl) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}
