package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/http/middleware"
	"github.com/Eltn555/admin/internal/logging"
)

// CookieOptions controls how the token cookie is mirrored to the browser
type CookieOptions struct {
	Name   string
	Secure bool
}

// LoginHandlers serves the login page using post/redirect/get. Every
// browser drives its own login flow, keyed by the login attempt cookie.
type LoginHandlers struct {
	flows       domain.LoginFlows
	store       domain.SessionStore
	persistence domain.SessionPersistence
	cookie      CookieOptions
	loginPath   string
	logger      *zap.Logger
	now         func() time.Time
}

// NewLoginHandlers creates new login handlers
func NewLoginHandlers(flows domain.LoginFlows, store domain.SessionStore, persistence domain.SessionPersistence, cookie CookieOptions, loginPath string, logger *zap.Logger) *LoginHandlers {
	if cookie.Name == "" {
		cookie.Name = domain.TokenCookieName
	}
	if loginPath == "" {
		loginPath = "/login"
	}
	return &LoginHandlers{
		flows:       flows,
		store:       store,
		persistence: persistence,
		cookie:      cookie,
		loginPath:   loginPath,
		logger:      logging.OrNop(logger).Named("login"),
		now:         time.Now,
	}
}

type loginPage struct {
	Title     string
	View      domain.LoginView
	Countdown string
	Error     string
	Notices   []domain.Notice
	Redirect  string
	Loading   bool
}

// formatCountdown renders seconds as m:ss
func formatCountdown(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func (h *LoginHandlers) loginURL(redirect string) string {
	if redirect == "" {
		return h.loginPath
	}
	return h.loginPath + "?redirect=" + url.QueryEscape(redirect)
}

// attempt returns the login attempt of the requesting browser, issuing a
// new attempt cookie when it has none
func (h *LoginHandlers) attempt(c *gin.Context) (string, domain.LoginFlow) {
	id, err := c.Cookie(domain.AttemptCookieName)
	if err == nil {
		if _, err = uuid.Parse(id); err != nil {
			h.logger.Debug("replacing malformed login attempt", zap.String("attempt", id))
		}
	}
	if err != nil {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(domain.AttemptCookieName, id, 0, h.loginPath, "", h.cookie.Secure, true)
	}
	return id, h.flows.Flow(id)
}

// Page renders the current login step
func (h *LoginHandlers) Page(c *gin.Context) {
	_, flow := h.attempt(c)
	view := flow.View()
	session := h.store.Snapshot()

	c.HTML(http.StatusOK, "login.tmpl", loginPage{
		Title:     "Login",
		View:      view,
		Countdown: formatCountdown(view.RemainingSeconds),
		Error:     session.Error,
		Notices:   flow.DrainNotices(),
		Redirect:  c.Query("redirect"),
		Loading:   session.Status() == domain.StatusLoading,
	})
}

// RequestCode handles the phone form
func (h *LoginHandlers) RequestCode(c *gin.Context) {
	_, flow := h.attempt(c)
	if err := flow.RequestCode(c.Request.Context(), c.PostForm("phone")); err != nil {
		h.logger.Debug("request code", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, h.loginURL(c.PostForm("redirect")))
}

// Resend handles the resend button
func (h *LoginHandlers) Resend(c *gin.Context) {
	_, flow := h.attempt(c)
	if err := flow.Resend(c.Request.Context()); err != nil {
		h.logger.Debug("resend code", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, h.loginURL(c.PostForm("redirect")))
}

// ChangeNumber returns the form to the phone step
func (h *LoginHandlers) ChangeNumber(c *gin.Context) {
	_, flow := h.attempt(c)
	flow.ChangeNumber()
	c.Redirect(http.StatusSeeOther, h.loginURL(c.PostForm("redirect")))
}

// Verify handles the OTP form. On success the token cookie is set on the
// browser and the operator is sent to the redirect target.
func (h *LoginHandlers) Verify(c *gin.Context) {
	ctx := c.Request.Context()
	redirect := c.PostForm("redirect")
	id, flow := h.attempt(c)

	if err := flow.Verify(ctx, c.PostForm("otp")); err != nil {
		h.logger.Debug("verify code", zap.Error(err))
		c.Redirect(http.StatusSeeOther, h.loginURL(redirect))
		return
	}
	// the attempt is done; its success notice has no page to show on
	h.flows.Forget(id)
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(domain.AttemptCookieName, "", -1, h.loginPath, "", h.cookie.Secure, true)

	cookie, err := h.persistence.Cookie(ctx)
	if err != nil || cookie == nil {
		h.logger.Error("session cookie missing after login", zap.Error(err))
		c.Redirect(http.StatusSeeOther, h.loginURL(redirect))
		return
	}
	SetTokenCookie(c, cookie, h.cookie, h.now())

	c.Redirect(http.StatusSeeOther, middleware.SafeRedirect(redirect))
}

// SetTokenCookie writes the persisted token cookie to the response
func SetTokenCookie(c *gin.Context, cookie *domain.Cookie, opts CookieOptions, now time.Time) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(opts.Name, cookie.Value, cookie.MaxAge(now), "/", "", opts.Secure, true)
}

// ClearTokenCookie expires the token cookie on the browser
func ClearTokenCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(opts.Name, "", -1, "/", "", opts.Secure, true)
}
