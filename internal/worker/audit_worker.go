package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/events"
)

// StartTaskAuditWorker subscribes a structured audit log to every task
// lifecycle event.
func StartTaskAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range events.TaskEventTypes() {
		dispatcher.Subscribe(eventType, auditHandler(logger))
	}
}

func auditHandler(logger *zap.Logger) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("event", string(event.Type)),
			zap.String("task_id", event.TaskID),
			zap.Time("at", event.Timestamp),
		}
		if payload, ok := event.Payload.(events.TaskChangedPayload); ok {
			fields = append(fields, zap.Strings("fields", payload.Fields))
		}
		logger.Info("task event", fields...)
		return nil
	}
}
