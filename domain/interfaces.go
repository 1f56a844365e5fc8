package domain

import "context"

// LocalStorage is the key/value store read by the HTTP adapter for
// request signing. Get reports ok=false for a missing key.
type LocalStorage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, keys ...string) error
}

// CookieStore holds the token cookie read by the route guard.
// Get returns nil for a missing or expired cookie.
type CookieStore interface {
	Get(ctx context.Context, name string) (*Cookie, error)
	Set(ctx context.Context, cookie *Cookie) error
	Remove(ctx context.Context, name string) error
}

// SessionPersistence writes and clears the session token in every
// backing store as one operation.
type SessionPersistence interface {
	// Token returns the persisted token, or ErrNoSessionToken
	Token(ctx context.Context) (string, error)
	// Cookie returns the current token cookie, or nil
	Cookie(ctx context.Context) (*Cookie, error)
	Save(ctx context.Context, token string, user *User) error
	Clear(ctx context.Context) error
}

// AuthTransport calls the remote auth backend
type AuthTransport interface {
	SendOTP(ctx context.Context, phone string) (*SendOTPResult, error)
	VerifyOTP(ctx context.Context, phone, otp string) (*VerifyOTPResult, error)
	ValidateToken(ctx context.Context) (*User, error)
	Logout(ctx context.Context) error
}

// SessionStore is the single authority over authentication state.
// Actions report whether they succeeded; details land in Session.Error.
type SessionStore interface {
	CheckAuth(ctx context.Context) bool
	SendOTP(ctx context.Context, phone string) bool
	ValidateOTP(ctx context.Context, phone, otp string) bool
	Logout(ctx context.Context)
	ClearError()
	Snapshot() Session
}

// TokenInspector reads display claims from a session token without
// verifying it
type TokenInspector interface {
	Inspect(token string) (*TokenInfo, error)
}

// LoginFlow is the phone/OTP step machine behind the login page
type LoginFlow interface {
	RequestCode(ctx context.Context, phone string) error
	Resend(ctx context.Context) error
	Verify(ctx context.Context, otp string) error
	ChangeNumber()
	View() LoginView
	DrainNotices() []Notice
}

// LoginFlows hands out one login flow per browser login attempt
type LoginFlows interface {
	Flow(attemptID string) LoginFlow
	Forget(attemptID string)
}
