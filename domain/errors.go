package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Validation errors
var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidOTP   = errors.New("otp must be 6 digits")
)

// Login flow errors
var (
	ErrNoChallenge      = errors.New("no verification code requested")
	ErrChallengeExpired = errors.New("verification code has expired")
	ErrResendTooSoon    = errors.New("verification code can not be resent yet")
	ErrRequestInFlight  = errors.New("request already in progress")
	ErrCodeNotSent      = errors.New("verification code was not sent")
	ErrVerifyFailed     = errors.New("verification failed")
)

// Session errors
var (
	ErrSessionInvalid = errors.New("session token rejected")
	ErrNoSessionToken = errors.New("no session token")
	ErrPersistPartial = errors.New("session persisted partially")
	ErrTokenOpaque    = errors.New("token carries no readable claims")
)

// TransportError is a failed backend call: a non-2xx status or, with
// StatusCode 0, a network failure.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

// NewStatusError builds a TransportError for a non-2xx response
func NewStatusError(status int, message string) *TransportError {
	if message == "" {
		message = fmt.Sprintf("Request failed with status code %d", status)
	}
	return &TransportError{StatusCode: status, Message: message}
}

// NewNetworkError builds a TransportError for a request that got no response
func NewNetworkError(err error) *TransportError {
	msg := "Network error"
	if err != nil {
		msg = err.Error()
	}
	return &TransportError{Message: msg, Err: err}
}

func (e *TransportError) Error() string { return e.Message }

// Unwrap maps 401 to ErrSessionInvalid so callers can use errors.Is
func (e *TransportError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrSessionInvalid
	}
	return e.Err
}

// ErrorMessage returns the human-readable text of err, or fallback when
// err carries none.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var te *TransportError
	if errors.As(err, &te) {
		if te.Message != "" {
			return te.Message
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
