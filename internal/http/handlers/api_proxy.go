package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Eltn555/admin/internal/infrastructure/apiclient"
	"github.com/Eltn555/admin/internal/logging"
)

// APIProxy forwards /api requests to the backend. Each request is signed
// with the caller's own token.
type APIProxy struct {
	client     *apiclient.Client
	cookieName string
	logger     *zap.Logger
}

// NewAPIProxy creates a new API proxy reading the caller token from the
// cookieName cookie
func NewAPIProxy(client *apiclient.Client, cookieName string, logger *zap.Logger) *APIProxy {
	return &APIProxy{
		client:     client,
		cookieName: cookieName,
		logger:     logging.OrNop(logger).Named("proxy"),
	}
}

// callerToken prefers an explicit bearer token, then the token cookie
func (p *APIProxy) callerToken(c *gin.Context) string {
	if token := apiclient.TokenFromHeader(c.GetHeader("Authorization")); token != "" {
		return token
	}
	token, _ := c.Cookie(p.cookieName)
	return token
}

var skipResponseHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Content-Length":    true,
}

// Forward handles ANY /api/*path
func (p *APIProxy) Forward(c *gin.Context) {
	resp, err := p.client.Forward(
		c.Request.Context(),
		c.Request.Method,
		c.Param("path"),
		c.Request.URL.Query(),
		c.Request.Header,
		p.callerToken(c),
		c.Request.Body,
	)
	if err != nil {
		p.logger.Error("backend unreachable", zap.String("path", c.Param("path")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Backend unavailable"})
		return
	}
	defer resp.Body.Close()

	for k, vals := range resp.Header {
		if skipResponseHeaders[k] {
			continue
		}
		for _, v := range vals {
			c.Writer.Header().Add(k, v)
		}
	}
	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		p.logger.Warn("copy backend response", zap.Error(err))
	}
}
