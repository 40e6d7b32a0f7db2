package tasks

import (
	"context"

	"github.com/google/uuid"
	"github.com/watchroom/watchroom/internal/models"
)

type Repository interface {
	CreateTask(ctx context.Context, task *models.VideoTask) (*models.VideoTask, error)
	GetTaskByID(ctx context.Context, taskID uuid.UUID) (*models.VideoTask, error)
	GetTasksByUser(ctx context.Context, userID uuid.UUID) ([]*models.VideoTask, error)
	FindByOwnerAndKey(ctx context.Context, ownerID uuid.UUID, key string) (*models.VideoTask, error)

	// TransitionStatus performs a compare-and-set status update and reports
	// whether the row actually moved. Used to gate one-shot side effects
	// like job enqueue.
	TransitionStatus(ctx context.Context, taskID uuid.UUID, from, to models.ProcessingStatus) (bool, error)

	// SetStatus unconditionally sets the status ("set to X" semantics, safe
	// under redundant delivery).
	SetStatus(ctx context.Context, taskID uuid.UUID, status models.ProcessingStatus) error
	SetResult(ctx context.Context, taskID uuid.UUID, status models.ProcessingStatus, tiers, errMsg string) error
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error
}
