package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/internal/tasks"
)

type taskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) tasks.Repository {
	return &taskRepo{
		db: db,
	}
}

func (t *taskRepo) CreateTask(ctx context.Context, task *models.VideoTask) (*models.VideoTask, error) {
	created := &models.VideoTask{}
	if err := t.db.QueryRowxContext(
		ctx,
		createTaskQuery,
		task.VideoURL,
		task.Title,
		task.Status,
		task.CreatedBy,
	).StructScan(created); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

func (t *taskRepo) GetTaskByID(ctx context.Context, taskID uuid.UUID) (*models.VideoTask, error) {
	task := &models.VideoTask{}
	if err := t.db.QueryRowxContext(
		ctx,
		getTaskByIDQuery,
		taskID,
	).StructScan(task); err != nil {
		return nil, fmt.Errorf("failed to get task by id: %w", err)
	}
	return task, nil
}

func (t *taskRepo) GetTasksByUser(ctx context.Context, userID uuid.UUID) ([]*models.VideoTask, error) {
	rows, err := t.db.QueryxContext(
		ctx,
		getTasksByUserQuery,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks by user: %w", err)
	}
	defer rows.Close()
	taskList := make([]*models.VideoTask, 0)
	for rows.Next() {
		var task models.VideoTask
		if err = rows.StructScan(&task); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		taskList = append(taskList, &task)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan tasks: %w", err)
	}
	return taskList, nil
}

func (t *taskRepo) FindByOwnerAndKey(ctx context.Context, ownerID uuid.UUID, key string) (*models.VideoTask, error) {
	task := &models.VideoTask{}
	if err := t.db.QueryRowxContext(
		ctx,
		findByOwnerAndKeyQuery,
		ownerID,
		key,
	).StructScan(task); err != nil {
		return nil, fmt.Errorf("failed to find task by owner and key: %w", err)
	}
	return task, nil
}

func (t *taskRepo) TransitionStatus(ctx context.Context, taskID uuid.UUID, from, to models.ProcessingStatus) (bool, error) {
	res, err := t.db.ExecContext(
		ctx,
		transitionStatusQuery,
		taskID,
		from,
		to,
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition task status: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return count == 1, nil
}

func (t *taskRepo) SetStatus(ctx context.Context, taskID uuid.UUID, status models.ProcessingStatus) error {
	if _, err := t.db.ExecContext(
		ctx,
		setStatusQuery,
		taskID,
		status,
	); err != nil {
		return fmt.Errorf("failed to set task status: %w", err)
	}
	return nil
}

func (t *taskRepo) SetResult(ctx context.Context, taskID uuid.UUID, status models.ProcessingStatus, tiers, errMsg string) error {
	if _, err := t.db.ExecContext(
		ctx,
		setResultQuery,
		taskID,
		status,
		tiers,
		errMsg,
	); err != nil {
		return fmt.Errorf("failed to set task result: %w", err)
	}
	return nil
}

func (t *taskRepo) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	res, err := t.db.ExecContext(
		ctx,
		deleteTaskQuery,
		taskID,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	count, _ := res.RowsAffected()
	if count == 0 {
		return fmt.Errorf("no task found to delete")
	}
	return nil
}
