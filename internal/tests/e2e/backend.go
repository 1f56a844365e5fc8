package e2e

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TestOTP is the only code the fake backend accepts
const TestOTP = "123456"

// FakeBackend is an in-process auth backend speaking the kebab dialect
type FakeBackend struct {
	Server *httptest.Server

	mu       sync.Mutex
	issued   map[string]bool
	sessions map[string]string
	calls    map[string]int
	proxied  []string
}

// NewFakeBackend starts a fake auth backend under /api
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &FakeBackend{
		issued:   make(map[string]bool),
		sessions: make(map[string]string),
		calls:    make(map[string]int),
	}

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/send-otp", b.sendOTP)
	api.POST("/auth/validate-otp", b.validateOTP)
	api.GET("/auth/validate-token", b.validateToken)
	api.POST("/auth/logout", b.logout)
	api.GET("/products", b.products)

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the API base URL
func (b *FakeBackend) URL() string { return b.Server.URL + "/api" }

// Calls returns how often the named endpoint was hit
func (b *FakeBackend) Calls(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[name]
}

// Revoke invalidates every issued session
func (b *FakeBackend) Revoke() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions = make(map[string]string)
}

// ProxiedAuth returns the Authorization headers seen on proxied routes
func (b *FakeBackend) ProxiedAuth() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.proxied...)
}

func (b *FakeBackend) hit(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[name]++
}

func bearer(c *gin.Context) string {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func (b *FakeBackend) sendOTP(c *gin.Context) {
	b.hit("send-otp")
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PhoneNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "phoneNumber is required"})
		return
	}
	b.mu.Lock()
	b.issued[req.PhoneNumber] = true
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"phoneNumber": req.PhoneNumber})
}

func (b *FakeBackend) validateOTP(c *gin.Context) {
	b.hit("validate-otp")
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
		OTP         string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.issued[req.PhoneNumber] || req.OTP != TestOTP {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid OTP"})
		return
	}
	delete(b.issued, req.PhoneNumber)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat": time.Now().UnixNano(),
	}).SignedString([]byte("fake-backend"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	b.sessions[token] = req.PhoneNumber
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": "1", "phone": req.PhoneNumber},
	})
}

func (b *FakeBackend) validateToken(c *gin.Context) {
	b.hit("validate-token")
	b.mu.Lock()
	phone, ok := b.sessions[bearer(c)]
	b.mu.Unlock()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": "1", "phone": phone}})
}

func (b *FakeBackend) logout(c *gin.Context) {
	b.hit("logout")
	b.mu.Lock()
	delete(b.sessions, bearer(c))
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{})
}

func (b *FakeBackend) products(c *gin.Context) {
	b.hit("products")
	b.mu.Lock()
	b.proxied = append(b.proxied, c.GetHeader("Authorization"))
	_, ok := b.sessions[bearer(c)]
	b.mu.Unlock()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": []gin.H{{"id": "p1"}}})
}
