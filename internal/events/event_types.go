package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated EventType = "task_created"
	EventTaskUpdated EventType = "task_updated"
	EventTaskDeleted EventType = "task_deleted"
)

// TaskEventTypes lists every task lifecycle event.
func TaskEventTypes() []EventType {
	return []EventType{EventTaskCreated, EventTaskUpdated, EventTaskDeleted}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TaskID    string      `json:"task_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TaskChangedPayload lists the fields touched by an update.
type TaskChangedPayload struct {
	Fields []string `json:"fields"`
}
