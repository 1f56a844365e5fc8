package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/config"
)

func defaultRules() config.RouteRules {
	return config.RouteRules{
		LoginPath:        "/login",
		RootPath:         "/",
		PublicPaths:      []string{"/login"},
		ExcludedPrefixes: []string{"/static/", "/api", "/favicon.ico", "/health"},
	}
}

func TestRouteGuard_Decide(t *testing.T) {
	guard := NewRouteGuard(defaultRules(), "")

	tests := []struct {
		name     string
		path     string
		hasToken bool
		action   Action
		location string
	}{
		{name: "public without token", path: "/login", hasToken: false, action: Allow},
		{name: "public subpath without token", path: "/login/otp", hasToken: false, action: Allow},
		{name: "public with token", path: "/login", hasToken: true, action: RedirectToRoot, location: "/"},
		{name: "protected without token", path: "/orders", hasToken: false, action: RedirectToLogin, location: "/login?redirect=%2Forders"},
		{name: "root without token", path: "/", hasToken: false, action: RedirectToLogin, location: "/login?redirect=%2F"},
		{name: "nested protected without token", path: "/orders/42/items", hasToken: false, action: RedirectToLogin, location: "/login?redirect=%2Forders%2F42%2Fitems"},
		{name: "protected with token", path: "/orders", hasToken: true, action: Allow},
		{name: "login lookalike is protected", path: "/loginhistory", hasToken: false, action: RedirectToLogin, location: "/login?redirect=%2Floginhistory"},
		// A plain startsWith("/login") check would let both lookalikes through
		// as public. Public rules match whole path segments instead.
		{name: "dashed login lookalike is protected", path: "/login-help", hasToken: false, action: RedirectToLogin, location: "/login?redirect=%2Flogin-help"},
		{name: "dashed login lookalike with token is allowed", path: "/login-help", hasToken: true, action: Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := guard.Decide(tt.path, tt.hasToken)
			assert.Equal(t, tt.action, d.Action)
			assert.Equal(t, tt.location, d.Location)
		})
	}
}

func TestRouteGuard_Excluded(t *testing.T) {
	guard := NewRouteGuard(defaultRules(), "")

	tests := []struct {
		path     string
		excluded bool
	}{
		{path: "/static/app.css", excluded: true},
		{path: "/api", excluded: true},
		{path: "/api/products", excluded: true},
		{path: "/apiary", excluded: false},
		{path: "/favicon.ico", excluded: true},
		{path: "/health", excluded: true},
		{path: "/images/logo.png", excluded: true},
		{path: "/orders", excluded: false},
		{path: "/login", excluded: false},
		{path: "/", excluded: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.excluded, guard.Excluded(tt.path))
		})
	}
}

func TestRouteGuard_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		path           string
		cookie         string
		expectedStatus int
		expectedLoc    string
	}{
		{name: "protected without cookie", path: "/settings", expectedStatus: http.StatusTemporaryRedirect, expectedLoc: "/login?redirect=%2Fsettings"},
		{name: "protected with cookie", path: "/settings", cookie: "tok", expectedStatus: http.StatusOK},
		{name: "login with cookie", path: "/login", cookie: "tok", expectedStatus: http.StatusTemporaryRedirect, expectedLoc: "/"},
		{name: "login without cookie", path: "/login", expectedStatus: http.StatusOK},
		{name: "api bypasses guard", path: "/api/products", expectedStatus: http.StatusOK},
		{name: "static bypasses guard", path: "/static/app.css", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(NewRouteGuard(defaultRules(), "").Handler())
			r.NoRoute(func(c *gin.Context) { c.String(http.StatusOK, "ok") })

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: domain.TokenCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedLoc != "" {
				assert.Equal(t, tt.expectedLoc, w.Header().Get("Location"))
			}
		})
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		target   string
		expected string
	}{
		{target: "", expected: "/"},
		{target: "/", expected: "/"},
		{target: "/orders", expected: "/orders"},
		{target: "/orders?page=2", expected: "/orders?page=2"},
		{target: "//evil.example.com", expected: "/"},
		{target: "/\\evil.example.com", expected: "/"},
		{target: "https://evil.example.com", expected: "/"},
		{target: "orders", expected: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeRedirect(tt.target))
		})
	}
}
