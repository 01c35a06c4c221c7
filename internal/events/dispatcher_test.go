package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryDispatcher_PublishRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls []string
	d.Subscribe(EventTaskCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventTaskCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.TaskID)
		return nil
	})
	d.Subscribe(EventTaskDeleted, func(context.Context, Event) error {
		calls = append(calls, "deleted")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTaskCreated, TaskID: "t1"})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"first", "second:t1"}, calls)

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTaskUpdated}))
}
