package tasks

import (
	"context"

	"github.com/google/uuid"
	"github.com/watchroom/watchroom/internal/models"
)

type UseCase interface {
	CreateTask(ctx context.Context, input *models.TaskCreateInput) (*models.TaskCreated, error)
	GetTask(ctx context.Context, taskID uuid.UUID) (*models.VideoTask, error)
	ListTasks(ctx context.Context) ([]*models.VideoTask, error)
	DeleteTask(ctx context.Context, taskID uuid.UUID) error

	// ConfirmUpload handles the storage webhook: created -> verified plus a
	// single job enqueue. Safe to call repeatedly with the same key.
	ConfirmUpload(ctx context.Context, event *models.S3Event) (string, error)
}
