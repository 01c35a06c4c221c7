package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/task-service/internal/domain"
)

const taskKeyPrefix = "task:"

// TaskCache stores task snapshots in Redis.
type TaskCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTaskCache builds a cache. A nil client disables caching.
func NewTaskCache(client *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{client: client, ttl: ttl}
}

// Get returns the cached task. The boolean is false on a miss.
func (c *TaskCache) Get(ctx context.Context, id string) (*domain.Task, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}

	raw, err := c.client.Get(ctx, taskKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", id, err)
	}

	var task domain.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, false, fmt.Errorf("cache decode %s: %w", id, err)
	}
	return &task, true, nil
}

// Set stores task for the configured TTL.
func (c *TaskCache) Set(ctx context.Context, task *domain.Task) error {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", task.ID, err)
	}
	if err := c.client.Set(ctx, taskKey(task.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", task.ID, err)
	}
	return nil
}

// Add stores task only when no entry exists, so a read that raced with a
// write cannot replace the newer entry the write stored.
func (c *TaskCache) Add(ctx context.Context, task *domain.Task) error {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", task.ID, err)
	}
	if err := c.client.SetNX(ctx, taskKey(task.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache add %s: %w", task.ID, err)
	}
	return nil
}

// Delete evicts a task.
func (c *TaskCache) Delete(ctx context.Context, id string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, taskKey(id)).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", id, err)
	}
	return nil
}

func taskKey(id string) string {
	return taskKeyPrefix + id
}
