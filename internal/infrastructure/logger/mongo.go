package logger

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.uber.org/zap"
)

// NewMongoMonitor returns a command monitor that logs MongoDB commands.
// Failed commands are logged at error level, commands slower than
// slowThreshold at warn level and every other command at debug level.
func NewMongoMonitor(zapLogger *zap.Logger, slowThreshold time.Duration) *event.CommandMonitor {
	l := zapLogger.Named("mongo")

	fields := func(ctx context.Context, e event.CommandFinishedEvent) []zap.Field {
		out := []zap.Field{
			zap.String("command", e.CommandName),
			zap.String("database", e.DatabaseName),
			zap.Int64("driver_request_id", e.RequestID),
			zap.Duration("elapsed", e.Duration),
		}
		if requestID := GetRequestID(ctx); requestID != "" {
			out = append(out, zap.String("request_id", requestID))
		}
		if traceID := GetTraceID(ctx); traceID != "" {
			out = append(out, zap.String("trace_id", traceID))
		}
		return out
	}

	return &event.CommandMonitor{
		Succeeded: func(ctx context.Context, e *event.CommandSucceededEvent) {
			f := fields(ctx, e.CommandFinishedEvent)
			if slowThreshold > 0 && e.Duration > slowThreshold {
				l.Warn("SLOW MONGO COMMAND", f...)
				return
			}
			l.Debug("Mongo Command", f...)
		},
		Failed: func(ctx context.Context, e *event.CommandFailedEvent) {
			l.Error("Mongo Command Error", append(fields(ctx, e.CommandFinishedEvent), zap.String("failure", e.Failure))...)
		},
	}
}
