package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/task-service/internal/events"
)

func TestStartTaskAuditWorker_LogsEveryTaskEvent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := events.NewInMemoryDispatcher()
	StartTaskAuditWorker(d, zap.New(core))

	for _, eventType := range events.TaskEventTypes() {
		require.NoError(t, d.Publish(context.Background(), events.Event{Type: eventType, TaskID: "t1"}))
	}
	require.NoError(t, d.Publish(context.Background(), events.Event{
		Type:    events.EventTaskUpdated,
		TaskID:  "t1",
		Payload: events.TaskChangedPayload{Fields: []string{"title"}},
	}))

	entries := logs.FilterMessage("task event").All()
	require.Len(t, entries, 4)
	assert.Equal(t, "task_created", entries[0].ContextMap()["event"])
	assert.Equal(t, "t1", entries[0].ContextMap()["task_id"])
	assert.Equal(t, []interface{}{"title"}, entries[3].ContextMap()["fields"])
}

func TestStartTaskAuditWorker_NilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() { StartTaskAuditWorker(nil, zap.NewNop()) })
}
