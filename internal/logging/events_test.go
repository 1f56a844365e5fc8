package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Eltn555/admin/domain"
)

func TestEventLogger_Record(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	recorder := NewEventLogger(zap.New(core))
	ctx := context.Background()

	recorder.Record(ctx, domain.NewSessionEvent(domain.OTPVerifiedEvent).
		WithUser(&domain.User{ID: "7", Phone: "901234567"}))
	recorder.Record(ctx, domain.NewSessionEvent(domain.SessionRejectedEvent).
		WithError(errors.New("Unauthorized")))
	recorder.Record(ctx, nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "OTP_VERIFIED", entries[0].ContextMap()["event"])
	assert.Equal(t, "7", entries[0].ContextMap()["user_id"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "Unauthorized", entries[1].ContextMap()["error"])
}

func TestNew(t *testing.T) {
	logger, err := New("debug", true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New("warn", false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = New("chatty", false)
	assert.Error(t, err)
}
