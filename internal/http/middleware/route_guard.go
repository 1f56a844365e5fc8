package middleware

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/config"
)

// Action is what the route guard does with a navigation
type Action int

const (
	Allow Action = iota
	RedirectToLogin
	RedirectToRoot
)

// Decision is the guard outcome for one path
type Decision struct {
	Action   Action
	Location string
}

// RouteGuard redirects navigations based on path class and the presence of
// the token cookie. It never checks token validity.
type RouteGuard struct {
	rules      config.RouteRules
	cookieName string
}

// NewRouteGuard creates a route guard. An empty cookieName uses
// domain.TokenCookieName.
func NewRouteGuard(rules config.RouteRules, cookieName string) *RouteGuard {
	if cookieName == "" {
		cookieName = domain.TokenCookieName
	}
	return &RouteGuard{rules: rules, cookieName: cookieName}
}

// matchSegment reports whether p equals prefix or continues it with a new
// path segment
func matchSegment(p, prefix string) bool {
	if strings.HasSuffix(prefix, "/") {
		return strings.HasPrefix(p, prefix)
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

// Excluded reports whether p bypasses the guard: static assets, the API
// namespace and any file-like path
func (g *RouteGuard) Excluded(p string) bool {
	for _, prefix := range g.rules.ExcludedPrefixes {
		if matchSegment(p, prefix) {
			return true
		}
	}
	return strings.Contains(path.Base(p), ".")
}

// IsPublic reports whether p is reachable without a session
func (g *RouteGuard) IsPublic(p string) bool {
	for _, prefix := range g.rules.PublicPaths {
		if matchSegment(p, prefix) {
			return true
		}
	}
	return false
}

// Decide applies the redirect policy to a non-excluded path
func (g *RouteGuard) Decide(p string, hasToken bool) Decision {
	public := g.IsPublic(p)
	switch {
	case public && hasToken:
		return Decision{Action: RedirectToRoot, Location: g.rules.RootPath}
	case !public && !hasToken:
		return Decision{
			Action:   RedirectToLogin,
			Location: g.rules.LoginPath + "?redirect=" + url.QueryEscape(p),
		}
	default:
		return Decision{Action: Allow}
	}
}

// Handler returns the gin middleware
func (g *RouteGuard) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if g.Excluded(p) {
			c.Next()
			return
		}

		token, err := c.Cookie(g.cookieName)
		hasToken := err == nil && token != ""

		d := g.Decide(p, hasToken)
		if d.Action == Allow {
			c.Next()
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, d.Location)
		c.Abort()
	}
}

// SafeRedirect returns target when it is a local absolute path and "/"
// otherwise
func SafeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return target
}
