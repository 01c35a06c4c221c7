package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/spec-kit/task-service/internal/api/dto"
	"github.com/spec-kit/task-service/internal/api/pipeline"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/domain"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// TaskService is the task workflow used by TasksHandler.
type TaskService interface {
	List(ctx context.Context, limit, offset uint64) ([]domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, title string, description *string) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskList is one page of tasks.
type TaskList struct {
	Items []domain.Task `json:"items"`
	Page  uint64        `json:"page"`
	Limit uint64        `json:"limit"`
}

// TasksHandler manages task endpoints.
type TasksHandler struct {
	service TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// List GET /tasks.
func (h *TasksHandler) List(ctx context.Context, _ pipeline.RequestContext, req *pipeline.Request, _ *auth.Principal) (pipeline.Result, error) {
	page, err := dto.ParsePagination(req.QueryValue("page"), req.QueryValue("limit"))
	if err != nil {
		return pipeline.Result{}, apperrors.NewBadRequest(err.Error())
	}

	tasks, err := h.service.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return pipeline.Result{}, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return pipeline.Result{Data: TaskList{Items: tasks, Page: page.Page, Limit: page.Limit}}, nil
}

// Get GET /tasks/:id.
func (h *TasksHandler) Get(ctx context.Context, _ pipeline.RequestContext, req *pipeline.Request, _ *auth.Principal) (pipeline.Result, error) {
	id, err := taskID(req)
	if err != nil {
		return pipeline.Result{}, err
	}

	task, err := h.service.Get(ctx, id)
	if err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Result{Data: task}, nil
}

// Create POST /tasks.
func (h *TasksHandler) Create(ctx context.Context, _ pipeline.RequestContext, req *pipeline.Request, _ *auth.Principal) (pipeline.Result, error) {
	var body dto.CreateTaskRequest
	if err := req.DecodeJSON(&body); err != nil {
		return pipeline.Result{}, err
	}
	body.Normalize()
	if err := body.Validate(); err != nil {
		return pipeline.Result{}, apperrors.NewValidation(err.Error())
	}

	task, err := h.service.Create(ctx, body.Title, body.Description)
	if err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Result{Status: http.StatusCreated, Data: task, Message: "task created"}, nil
}

// Update PUT /tasks/:id.
func (h *TasksHandler) Update(ctx context.Context, _ pipeline.RequestContext, req *pipeline.Request, _ *auth.Principal) (pipeline.Result, error) {
	id, err := taskID(req)
	if err != nil {
		return pipeline.Result{}, err
	}

	var body dto.UpdateTaskRequest
	if err := req.DecodeJSON(&body); err != nil {
		return pipeline.Result{}, err
	}
	body.Normalize()
	if err := body.Validate(); err != nil {
		return pipeline.Result{}, apperrors.NewValidation(err.Error())
	}

	task, err := h.service.Update(ctx, id, body.Patch())
	if err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Result{Data: task, Message: "task updated"}, nil
}

// Delete DELETE /tasks/:id.
func (h *TasksHandler) Delete(ctx context.Context, _ pipeline.RequestContext, req *pipeline.Request, _ *auth.Principal) (pipeline.Result, error) {
	id, err := taskID(req)
	if err != nil {
		return pipeline.Result{}, err
	}
	if err := h.service.Delete(ctx, id); err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Result{Message: "task deleted"}, nil
}

func taskID(req *pipeline.Request) (string, error) {
	raw := req.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.NewBadRequest(fmt.Sprintf("invalid id: %s", raw))
	}
	return id.String(), nil
}
