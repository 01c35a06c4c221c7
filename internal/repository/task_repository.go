package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-service/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var taskColumns = []string{"id", "title", "description", "completed", "created_at", "updated_at"}

// TaskRepository manages task persistence.
type TaskRepository interface {
	List(ctx context.Context, limit, offset uint64) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type taskRepository struct {
	db Querier
}

// NewTaskRepository builds the repository.
func NewTaskRepository(db Querier) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) List(ctx context.Context, limit, offset uint64) ([]domain.Task, error) {
	query, args, err := buildListTasksQuery(limit, offset)
	if err != nil {
		return nil, wrapErr("build list tasks", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list tasks", err)
	}
	defer rows.Close()

	result := make([]domain.Task, 0, limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, wrapErr("scan task", err)
		}
		result = append(result, *task)
	}
	return result, wrapErr("list tasks", rows.Err())
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query, args, err := psql.Select(taskColumns...).From("tasks").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, wrapErr("build get task", err)
	}

	task, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("get task", err)
	}
	return task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	query, args, err := buildInsertTaskQuery(task)
	if err != nil {
		return wrapErr("build insert task", err)
	}

	created, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return wrapErr("insert task", err)
	}
	*task = *created
	return nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	query, args, err := buildUpdateTaskQuery(task)
	if err != nil {
		return wrapErr("build update task", err)
	}

	updated, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return wrapErr("update task", err)
	}
	*task = *updated
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete task", err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func buildListTasksQuery(limit, offset uint64) (string, []any, error) {
	return psql.Select(taskColumns...).
		From("tasks").
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
}

func buildInsertTaskQuery(task *domain.Task) (string, []any, error) {
	return psql.Insert("tasks").
		Columns(taskColumns...).
		Values(task.ID, task.Title, task.Description, task.Completed, task.CreatedAt, task.UpdatedAt).
		Suffix("RETURNING " + strings.Join(taskColumns, ", ")).
		ToSql()
}

func buildUpdateTaskQuery(task *domain.Task) (string, []any, error) {
	return psql.Update("tasks").
		SetMap(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"completed":   task.Completed,
			"updated_at":  task.UpdatedAt,
		}).
		Where(sq.Eq{"id": task.ID}).
		Suffix("RETURNING " + strings.Join(taskColumns, ", ")).
		ToSql()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}
