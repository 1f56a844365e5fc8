package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		status        int
		requestID     string
		expectedLevel zapcore.Level
	}{
		{name: "ok request", status: http.StatusOK, expectedLevel: zapcore.InfoLevel},
		{name: "client error", status: http.StatusNotFound, expectedLevel: zapcore.WarnLevel},
		{name: "server error", status: http.StatusBadGateway, expectedLevel: zapcore.ErrorLevel},
		{name: "caller request id", status: http.StatusOK, requestID: "req-123", expectedLevel: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			r := gin.New()
			r.Use(RequestLogger(zap.New(core)))
			r.GET("/orders", func(c *gin.Context) { c.Status(tt.status) })

			req := httptest.NewRequest(http.MethodGet, "/orders", nil)
			if tt.requestID != "" {
				req.Header.Set(requestIDHeader, tt.requestID)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			entries := logs.All()
			require.Len(t, entries, 1)
			entry := entries[0]
			assert.Equal(t, tt.expectedLevel, entry.Level)

			fields := entry.ContextMap()
			assert.Equal(t, "/orders", fields["path"])
			assert.Equal(t, int64(tt.status), fields["status"])

			id := w.Header().Get(requestIDHeader)
			assert.NotEmpty(t, id)
			assert.Equal(t, id, fields["request_id"])
			if tt.requestID != "" {
				assert.Equal(t, tt.requestID, id)
			}
		})
	}
}
