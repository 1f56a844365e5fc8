package domain

import (
	"net/http"
	"time"
)

// Persisted client state keys
const (
	TokenCookieName = "auth_token"
	// AttemptCookieName keys the login flow of one browser
	AttemptCookieName = "login_attempt"

	LocalKeyAccessToken = "access_token"
	LocalKeyUser        = "user"
	LocalKeyIsLoggedIn  = "isLoggedIn"
)

// LocalAuthKeys lists every local storage entry written for a session
var LocalAuthKeys = []string{LocalKeyAccessToken, LocalKeyUser, LocalKeyIsLoggedIn}

// User represents the signed-in admin as returned by the backend
type User struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
}

// SessionStatus is the settled (or unsettled) state of the session store
type SessionStatus string

const (
	StatusUnknown         SessionStatus = "unknown"
	StatusLoading         SessionStatus = "loading"
	StatusAuthenticated   SessionStatus = "authenticated"
	StatusUnauthenticated SessionStatus = "unauthenticated"
)

// Session represents the in-memory authentication state.
// An empty Error means no error.
type Session struct {
	User            *User  `json:"user"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsLoading       bool   `json:"isLoading"`
	Error           string `json:"error,omitempty"`

	// settled is false until the first store action starts
	settled bool
}

// NewSession returns the state the store holds before CheckAuth runs
func NewSession() Session {
	return Session{IsLoading: true}
}

// Settle marks the session as having left the initial state
func (s *Session) Settle() { s.settled = true }

// Status derives the state machine position from the session fields
func (s Session) Status() SessionStatus {
	switch {
	case s.IsLoading && !s.settled:
		return StatusUnknown
	case s.IsLoading:
		return StatusLoading
	case s.IsAuthenticated && s.User != nil:
		return StatusAuthenticated
	default:
		return StatusUnauthenticated
	}
}

// Cookie represents the persisted token cookie
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Expires  time.Time
	Secure   bool
	SameSite http.SameSite
}

// Expired reports whether the cookie has passed its expiry at now
func (c *Cookie) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && !now.Before(c.Expires)
}

// MaxAge returns the remaining lifetime in whole seconds, at least 1
func (c *Cookie) MaxAge(now time.Time) int {
	secs := int(c.Expires.Sub(now).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}

// LoginStep is the position of the login form
type LoginStep string

const (
	StepPhoneEntry LoginStep = "phone-entry"
	StepOTPEntry   LoginStep = "otp-entry"
)

// OTPChallenge is the outstanding code request of a login attempt.
// ExpiresAt is nil once the code has expired.
type OTPChallenge struct {
	Phone     string
	ExpiresAt *time.Time
}

// Remaining returns the time left on the challenge at now
func (c *OTPChallenge) Remaining(now time.Time) time.Duration {
	if c == nil || c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// NoticeLevel classifies a login notice
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message shown to the operator
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// LoginView is the renderable state of the login flow
type LoginView struct {
	Step             LoginStep `json:"step"`
	Phone            string    `json:"phone,omitempty"`
	RemainingSeconds int       `json:"remainingSeconds"`
	CanResend        bool      `json:"canResend"`
	Expired          bool      `json:"expired"`
}

// SendOTPResult is the backend's answer to a code request
type SendOTPResult struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message,omitempty"`
}

// VerifyOTPResult is the backend's answer to a successful verification
type VerifyOTPResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// TokenInfo describes claims readable from a session token
type TokenInfo struct {
	Subject   string
	ExpiresAt *time.Time
}
