package logging

import (
	"context"

	"go.uber.org/zap"

	"github.com/Eltn555/admin/domain"
)

// EventLogger implements domain.EventRecorder by writing events to zap
type EventLogger struct {
	logger *zap.Logger
}

// NewEventLogger creates a new zap-backed event recorder
func NewEventLogger(logger *zap.Logger) *EventLogger {
	return &EventLogger{logger: OrNop(logger).Named("session")}
}

// Record implements domain.EventRecorder
func (l *EventLogger) Record(ctx context.Context, event *domain.SessionEvent) {
	if event == nil {
		return
	}
	fields := []zap.Field{
		zap.String("event", string(event.EventType)),
		zap.Bool("success", event.Success),
		zap.Time("at", event.Timestamp),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.Phone != "" {
		fields = append(fields, zap.String("phone", event.Phone))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}

	if event.Success {
		l.logger.Info("session event", fields...)
		return
	}
	l.logger.Warn("session event", append(fields, zap.String("error", event.ErrorMsg))...)
}
