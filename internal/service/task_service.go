package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/clock"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// TaskCache is the read-through cache used by TaskService. Writes overwrite
// with Set; read misses fill with Add, which never replaces an entry.
type TaskCache interface {
	Get(ctx context.Context, id string) (*domain.Task, bool, error)
	Set(ctx context.Context, task *domain.Task) error
	Add(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}

// TaskService implements task CRUD on top of the repository and cache.
type TaskService struct {
	tasks  repository.TaskRepository
	cache  TaskCache
	events events.Dispatcher
	clock  clock.Clock
	logger *zap.Logger
}

// NewTaskService builds the service. cache may be nil.
func NewTaskService(tasks repository.TaskRepository, cache TaskCache, clk clock.Clock, logger *zap.Logger) *TaskService {
	if clk == nil {
		clk = clock.System{}
	}
	return &TaskService{tasks: tasks, cache: cache, clock: clk, logger: logger}
}

// WithEvents publishes task lifecycle events to d.
func (s *TaskService) WithEvents(d events.Dispatcher) *TaskService {
	s.events = d
	return s
}

// List returns one page of tasks, newest first.
func (s *TaskService) List(ctx context.Context, limit, offset uint64) ([]domain.Task, error) {
	return s.tasks.List(ctx, limit, offset)
}

// Get returns a task, consulting the cache first.
func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	if s.cache != nil {
		task, hit, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("task cache read failed", zap.String("task_id", id), zap.Error(err))
		} else if hit {
			return task, nil
		}
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(id, err)
	}
	s.fill(ctx, task)
	return task, nil
}

// Create persists a new task.
func (s *TaskService) Create(ctx context.Context, title string, description *string) (*domain.Task, error) {
	now := s.now()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.store(ctx, task)
	s.publish(ctx, events.EventTaskCreated, task.ID, nil)
	return task, nil
}

// Update applies a partial update.
func (s *TaskService) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(id, err)
	}

	patch.Apply(task)
	task.UpdatedAt = s.now()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, notFound(id, err)
	}
	s.store(ctx, task)
	s.publish(ctx, events.EventTaskUpdated, id, events.TaskChangedPayload{Fields: patch.Fields()})
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return notFound(id, err)
	}
	s.evict(ctx, id)
	s.publish(ctx, events.EventTaskDeleted, id, nil)
	return nil
}

func (s *TaskService) store(ctx context.Context, task *domain.Task) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, task); err != nil {
		s.logger.Warn("task cache write failed", zap.String("task_id", task.ID), zap.Error(err))
	}
}

func (s *TaskService) fill(ctx context.Context, task *domain.Task) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Add(ctx, task); err != nil {
		s.logger.Warn("task cache fill failed", zap.String("task_id", task.ID), zap.Error(err))
	}
}

func (s *TaskService) evict(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn("task cache evict failed", zap.String("task_id", id), zap.Error(err))
	}
}

func (s *TaskService) publish(ctx context.Context, eventType events.EventType, taskID string, payload interface{}) {
	if s.events == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TaskID:    taskID,
		Timestamp: s.now(),
		Payload:   payload,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("task event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}

// now is truncated to microseconds, the resolution Postgres stores.
func (s *TaskService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}

func notFound(id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(fmt.Sprintf("task with id %s not found", id))
	}
	return err
}
