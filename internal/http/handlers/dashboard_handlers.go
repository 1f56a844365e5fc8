package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/logging"
)

// NavItem is one sidebar link
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

var sidebarNav = []NavItem{{Label: "Dashboard", Href: "/"}}

// DashboardHandlers serves the protected shell and logout
type DashboardHandlers struct {
	store       domain.SessionStore
	persistence domain.SessionPersistence
	inspector   domain.TokenInspector
	cookie      CookieOptions
	loginPath   string
	logger      *zap.Logger
}

// NewDashboardHandlers creates new dashboard handlers. A nil inspector
// hides the token expiry.
func NewDashboardHandlers(store domain.SessionStore, persistence domain.SessionPersistence, inspector domain.TokenInspector, cookie CookieOptions, loginPath string, logger *zap.Logger) *DashboardHandlers {
	if cookie.Name == "" {
		cookie.Name = domain.TokenCookieName
	}
	if loginPath == "" {
		loginPath = "/login"
	}
	return &DashboardHandlers{
		store:       store,
		persistence: persistence,
		inspector:   inspector,
		cookie:      cookie,
		loginPath:   loginPath,
		logger:      logging.OrNop(logger).Named("dashboard"),
	}
}

type dashboardPage struct {
	Title       string
	Nav         []NavItem
	Phone       string
	Loading     bool
	TokenExpiry string
}

// SessionResponse is the JSON form of the session snapshot
type SessionResponse struct {
	Status          domain.SessionStatus `json:"status"`
	User            *domain.User         `json:"user"`
	IsAuthenticated bool                 `json:"isAuthenticated"`
	IsLoading       bool                 `json:"isLoading"`
	Error           string               `json:"error,omitempty"`
	TokenExpiresAt  *time.Time           `json:"tokenExpiresAt,omitempty"`
}

func (h *DashboardHandlers) tokenExpiry(c *gin.Context) *time.Time {
	if h.inspector == nil {
		return nil
	}
	token, err := h.persistence.Token(c.Request.Context())
	if err != nil {
		return nil
	}
	info, err := h.inspector.Inspect(token)
	if err != nil {
		h.logger.Debug("inspect token", zap.Error(err))
		return nil
	}
	return info.ExpiresAt
}

// Index renders the dashboard
func (h *DashboardHandlers) Index(c *gin.Context) {
	session := h.store.Snapshot()

	nav := make([]NavItem, len(sidebarNav))
	for i, item := range sidebarNav {
		item.Active = item.Href == c.Request.URL.Path
		nav[i] = item
	}

	page := dashboardPage{
		Title:   "Dashboard",
		Nav:     nav,
		Loading: session.Status() == domain.StatusLoading,
	}
	if session.User != nil {
		page.Phone = session.User.Phone
	}
	if exp := h.tokenExpiry(c); exp != nil {
		page.TokenExpiry = exp.UTC().Format("2006-01-02 15:04 MST")
	}

	c.HTML(http.StatusOK, "dashboard.tmpl", page)
}

// Session returns the session snapshot as JSON
func (h *DashboardHandlers) Session(c *gin.Context) {
	s := h.store.Snapshot()
	c.JSON(http.StatusOK, SessionResponse{
		Status:          s.Status(),
		User:            s.User,
		IsAuthenticated: s.IsAuthenticated,
		IsLoading:       s.IsLoading,
		Error:           s.Error,
		TokenExpiresAt:  h.tokenExpiry(c),
	})
}

// Logout ends the session, clears the browser cookie and returns to login
func (h *DashboardHandlers) Logout(c *gin.Context) {
	h.store.Logout(c.Request.Context())
	ClearTokenCookie(c, h.cookie)
	c.Redirect(http.StatusSeeOther, h.loginPath)
}
