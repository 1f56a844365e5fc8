package e2e

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Eltn555/admin/internal/app"
	testconfig "github.com/Eltn555/admin/internal/tests/config"
)

// Panel is a running admin panel wired to a fake backend
type Panel struct {
	Container *app.Container
	Server    *httptest.Server
	Client    *http.Client
}

// StartPanel builds the full container against backend. A non-empty
// redisAddr persists the session in Redis.
func StartPanel(t *testing.T, backend *FakeBackend, redisAddr string) *Panel {
	t.Helper()

	cfg := testconfig.NewTestConfig(t, backend.URL(), redisAddr)
	c, err := app.NewContainer(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to build container: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	srv := httptest.NewServer(c.Router)
	t.Cleanup(srv.Close)

	return &Panel{Container: c, Server: srv, Client: newBrowser(t)}
}

// newBrowser returns a client that keeps cookies and never follows redirects
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// WithBrowser returns a view of the panel seen from a separate browser
// with its own cookie jar
func (p *Panel) WithBrowser(t *testing.T) *Panel {
	t.Helper()
	return &Panel{Container: p.Container, Server: p.Server, Client: newBrowser(t)}
}

// Get issues a GET against the panel
func (p *Panel) Get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := p.Client.Get(p.Server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// Post submits a form to the panel
func (p *Panel) Post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := p.Client.Post(p.Server.URL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// TokenCookie returns the session cookie the browser holds, if any
func (p *Panel) TokenCookie(t *testing.T) *http.Cookie {
	t.Helper()
	u, err := url.Parse(p.Server.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	for _, ck := range p.Client.Jar.Cookies(u) {
		if ck.Name == p.Container.Config.CookieName {
			return ck
		}
	}
	return nil
}

// Login walks the phone and code forms and returns the final redirect
func (p *Panel) Login(t *testing.T, phone, redirect string) *http.Response {
	t.Helper()
	p.Post(t, "/login/phone", url.Values{"phone": {phone}, "redirect": {redirect}})
	return p.Post(t, "/login/otp", url.Values{"otp": {TestOTP}, "redirect": {redirect}})
}
