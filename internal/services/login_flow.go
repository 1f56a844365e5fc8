package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/logging"
)

var (
	phonePattern = regexp.MustCompile(`^(\+?998)?\d{9}$`)
	otpPattern   = regexp.MustCompile(`^\d{6}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Notice texts shown by the login page
const (
	noticeInvalidPhone = "Please enter a valid phone number"
	noticeInvalidOTP   = "Please enter the 6-digit code"
	noticeCodeSent     = "Verification code sent to %s"
	noticeCodeExpired  = "Verification code expired. Please request a new code"
	noticeLoggedIn     = "Login successful"
)

// NormalizePhone strips spaces, dashes and parentheses
func NormalizePhone(phone string) string {
	return phoneSeparators.Replace(strings.TrimSpace(phone))
}

// ValidPhone reports whether phone is a local or +998 prefixed number
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidOTP reports whether otp is exactly six digits
func ValidOTP(otp string) bool {
	return otpPattern.MatchString(otp)
}

type LoginFlowConfig struct {
	CodeTTL      time.Duration
	TickInterval time.Duration
}

// DefaultLoginFlowConfig returns the 600s code window ticking every second
func DefaultLoginFlowConfig() LoginFlowConfig {
	return LoginFlowConfig{
		CodeTTL:      600 * time.Second,
		TickInterval: time.Second,
	}
}

// LoginFlow drives the phone-entry and otp-entry steps of the login page.
// It validates input before dispatching to the session store and keeps the
// code countdown.
type LoginFlow struct {
	store     domain.SessionStore
	config    LoginFlowConfig
	countdown *Countdown
	logger    *zap.Logger
	now       func() time.Time

	mu        sync.Mutex
	step      domain.LoginStep
	challenge *domain.OTPChallenge
	expired   bool
	inFlight  bool
	gen       uint64
	notices   []domain.Notice
}

// NewLoginFlow creates a login flow at the phone-entry step
func NewLoginFlow(store domain.SessionStore, config LoginFlowConfig, logger *zap.Logger) *LoginFlow {
	defaults := DefaultLoginFlowConfig()
	if config.CodeTTL <= 0 {
		config.CodeTTL = defaults.CodeTTL
	}
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	return &LoginFlow{
		store:     store,
		config:    config,
		countdown: NewCountdown(config.TickInterval),
		logger:    logging.OrNop(logger).Named("login"),
		now:       time.Now,
		step:      domain.StepPhoneEntry,
	}
}

func (f *LoginFlow) notifyLocked(level domain.NoticeLevel, msg string) {
	f.notices = append(f.notices, domain.Notice{Level: level, Message: msg})
}

func (f *LoginFlow) notify(level domain.NoticeLevel, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifyLocked(level, msg)
}

func (f *LoginFlow) acquire() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return domain.ErrRequestInFlight
	}
	f.inFlight = true
	return nil
}

func (f *LoginFlow) storeError(fallback string) string {
	if msg := f.store.Snapshot().Error; msg != "" {
		return msg
	}
	return fallback
}

// RequestCode validates phone and asks the store to send a code. On success
// the flow moves to otp-entry and the countdown restarts.
func (f *LoginFlow) RequestCode(ctx context.Context, phone string) error {
	phone = NormalizePhone(phone)
	if !ValidPhone(phone) {
		f.notify(domain.NoticeError, noticeInvalidPhone)
		return domain.ErrInvalidPhone
	}
	if err := f.acquire(); err != nil {
		return err
	}

	f.store.ClearError()
	ok := f.store.SendOTP(ctx, phone)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false

	if !ok {
		msg := f.storeError(msgSendOTPFailed)
		f.notifyLocked(domain.NoticeError, msg)
		f.logger.Info("code request failed", zap.String("phone", phone), zap.String("error", msg))
		return fmt.Errorf("%w: %s", domain.ErrCodeNotSent, msg)
	}

	expiresAt := f.now().Add(f.config.CodeTTL)
	f.step = domain.StepOTPEntry
	f.challenge = &domain.OTPChallenge{Phone: phone, ExpiresAt: &expiresAt}
	f.expired = false
	f.gen++
	gen := f.gen
	f.countdown.Start(expiresAt, func() { f.expire(gen) })

	f.notifyLocked(domain.NoticeSuccess, fmt.Sprintf(noticeCodeSent, phone))
	return nil
}

// Resend requests a new code for the current phone once the previous one
// has run out
func (f *LoginFlow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.step != domain.StepOTPEntry || f.challenge == nil {
		f.mu.Unlock()
		return domain.ErrNoChallenge
	}
	if f.challenge.Remaining(f.now()) > 0 {
		f.mu.Unlock()
		return domain.ErrResendTooSoon
	}
	phone := f.challenge.Phone
	f.mu.Unlock()

	return f.RequestCode(ctx, phone)
}

// Verify submits otp for the current challenge. At most one verification
// runs at a time.
func (f *LoginFlow) Verify(ctx context.Context, otp string) error {
	otp = strings.TrimSpace(otp)

	f.mu.Lock()
	if f.step != domain.StepOTPEntry || f.challenge == nil {
		f.mu.Unlock()
		return domain.ErrNoChallenge
	}
	if !ValidOTP(otp) {
		f.notifyLocked(domain.NoticeError, noticeInvalidOTP)
		f.mu.Unlock()
		return domain.ErrInvalidOTP
	}
	if f.expired || f.challenge.Remaining(f.now()) == 0 {
		f.notifyLocked(domain.NoticeError, noticeCodeExpired)
		f.mu.Unlock()
		return domain.ErrChallengeExpired
	}
	if f.inFlight {
		f.mu.Unlock()
		return domain.ErrRequestInFlight
	}
	f.inFlight = true
	phone := f.challenge.Phone
	f.mu.Unlock()

	f.store.ClearError()
	ok := f.store.ValidateOTP(ctx, phone, otp)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false

	if !ok {
		msg := f.storeError(msgInvalidOTP)
		f.notifyLocked(domain.NoticeError, msg)
		return fmt.Errorf("%w: %s", domain.ErrVerifyFailed, msg)
	}

	f.resetLocked()
	f.notifyLocked(domain.NoticeSuccess, noticeLoggedIn)
	return nil
}

// ChangeNumber returns to phone-entry and drops the current challenge
func (f *LoginFlow) ChangeNumber() {
	f.mu.Lock()
	f.resetLocked()
	f.mu.Unlock()

	f.store.ClearError()
}

func (f *LoginFlow) resetLocked() {
	f.countdown.Stop()
	f.gen++
	f.step = domain.StepPhoneEntry
	f.challenge = nil
	f.expired = false
}

// expire runs when the countdown of challenge generation gen reaches zero
func (f *LoginFlow) expire(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen || f.challenge == nil {
		return
	}
	f.challenge.ExpiresAt = nil
	f.expired = true
	f.notifyLocked(domain.NoticeError, noticeCodeExpired)
	f.logger.Debug("verification code expired", zap.String("phone", f.challenge.Phone))
}

// View returns the renderable state of the flow
func (f *LoginFlow) View() domain.LoginView {
	f.mu.Lock()
	defer f.mu.Unlock()

	view := domain.LoginView{Step: f.step, Expired: f.expired}
	if f.challenge == nil {
		return view
	}
	remaining := f.challenge.Remaining(f.now())
	view.Phone = f.challenge.Phone
	view.RemainingSeconds = int((remaining + time.Second - 1) / time.Second)
	view.CanResend = f.step == domain.StepOTPEntry && remaining == 0
	return view
}

// DrainNotices returns and clears the queued notices
func (f *LoginFlow) DrainNotices() []domain.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.notices
	f.notices = nil
	return out
}

// Stop halts the countdown
func (f *LoginFlow) Stop() {
	f.countdown.Stop()
}
