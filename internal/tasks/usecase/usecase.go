package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/watchroom/watchroom/internal/config"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/internal/tasks"
	"github.com/watchroom/watchroom/pkg/logger"
	"github.com/watchroom/watchroom/pkg/utils"
)

type taskUC struct {
	cfg       *config.Config
	taskRepo  tasks.Repository
	redisRepo tasks.RedisRepository
	awsRepo   tasks.AWSRepository
	logger    logger.Logger
}

func NewTaskUseCase(
	cfg *config.Config,
	taskRepo tasks.Repository,
	redisRepo tasks.RedisRepository,
	awsRepo tasks.AWSRepository,
	log logger.Logger,
) tasks.UseCase {
	return &taskUC{
		cfg:       cfg,
		taskRepo:  taskRepo,
		redisRepo: redisRepo,
		awsRepo:   awsRepo,
		logger:    log,
	}
}

func (t *taskUC) CreateTask(ctx context.Context, input *models.TaskCreateInput) (*models.TaskCreated, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		t.logger.Errorf("CreateTask - GetUserFromCtx: %v", err)
		return nil, err
	}
	if err = utils.ValidateStruct(ctx, input); err != nil {
		return nil, fmt.Errorf("%w: %v", tasks.ErrInvalidInput, err)
	}

	key := utils.BuildUploadKey(user.UserID.String(), input.Title)

	// Credential before task row: an unused single-use credential expires
	// harmlessly, a task row without a credential is dead weight.
	presigned, err := t.awsRepo.GetPresignedPost(ctx, &models.UploadInput{
		Bucket: t.cfg.S3.UploadBucket,
		Key:    key,
	})
	if err != nil {
		t.logger.Errorf("CreateTask - GetPresignedPost: %v", err)
		return nil, fmt.Errorf("%w: failed to issue upload credential: %v", tasks.ErrUpstream, err)
	}

	task, err := t.taskRepo.CreateTask(ctx, &models.VideoTask{
		VideoURL:  key,
		Title:     input.Title,
		Status:    models.StatusCreated,
		CreatedBy: user.UserID,
	})
	if err != nil {
		t.logger.Errorf("CreateTask - CreateTask: %v", err)
		return nil, fmt.Errorf("%w: failed to create task: %v", tasks.ErrUpstream, err)
	}

	return &models.TaskCreated{
		ID:           task.TaskID,
		Task:         task,
		UploadURL:    presigned.URL,
		UploadFields: presigned.Fields,
	}, nil
}

func (t *taskUC) GetTask(ctx context.Context, taskID uuid.UUID) (*models.VideoTask, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	task, err := t.taskRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tasks.ErrNotFound
		}
		t.logger.Errorf("GetTask - GetTaskByID: %v", err)
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	if task.CreatedBy != user.UserID {
		return nil, tasks.ErrForbidden
	}
	return task, nil
}

func (t *taskUC) ListTasks(ctx context.Context) ([]*models.VideoTask, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	taskList, err := t.taskRepo.GetTasksByUser(ctx, user.UserID)
	if err != nil {
		t.logger.Errorf("ListTasks - GetTasksByUser: %v", err)
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return taskList, nil
}

func (t *taskUC) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		return err
	}
	task, err := t.taskRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tasks.ErrNotFound
		}
		return fmt.Errorf("failed to fetch task: %w", err)
	}
	if task.CreatedBy != user.UserID {
		return tasks.ErrForbidden
	}
	if err = t.taskRepo.DeleteTask(ctx, user.UserID, taskID); err != nil {
		t.logger.Errorf("DeleteTask - DeleteTask: %v", err)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	// Blob cleanup is best-effort: the row is gone, leftover objects only
	// cost storage.
	if err = t.awsRepo.RemoveObject(ctx, t.cfg.S3.UploadBucket, task.VideoURL); err != nil {
		t.logger.Warnf("DeleteTask - failed to remove source object %s: %v", task.VideoURL, err)
	}
	derived, err := t.awsRepo.ListObjectsByPrefix(ctx, t.cfg.S3.MediaBucket, taskID.String()+"/")
	if err != nil {
		t.logger.Warnf("DeleteTask - failed to list derived objects for %s: %v", taskID, err)
		return nil
	}
	for _, key := range derived {
		if err = t.awsRepo.RemoveObject(ctx, t.cfg.S3.MediaBucket, key); err != nil {
			t.logger.Warnf("DeleteTask - failed to remove derived object %s: %v", key, err)
		}
	}
	return nil
}

func (t *taskUC) ConfirmUpload(ctx context.Context, event *models.S3Event) (string, error) {
	if err := utils.ValidateStruct(ctx, event); err != nil {
		return "", fmt.Errorf("%w: invalid event payload: %v", tasks.ErrInvalidInput, err)
	}
	owner, err := utils.OwnerFromKey(event.ObjectKey)
	if err != nil {
		return "", fmt.Errorf("%w: invalid object key: %v", tasks.ErrInvalidInput, err)
	}
	ownerID, err := uuid.Parse(owner)
	if err != nil {
		return "", fmt.Errorf("%w: invalid owner id in object key: %v", tasks.ErrInvalidInput, err)
	}

	task, err := t.taskRepo.FindByOwnerAndKey(ctx, ownerID, event.ObjectKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			t.logger.Warnf("ConfirmUpload - no matching task for key %s", event.ObjectKey)
			return "no matching task found to update", nil
		}
		return "", fmt.Errorf("failed to look up task: %w", err)
	}

	// The compare-and-set makes duplicate webhook deliveries harmless:
	// only the delivery that wins the created->verified transition enqueues.
	moved, err := t.taskRepo.TransitionStatus(ctx, task.TaskID, models.StatusCreated, models.StatusVerified)
	if err != nil {
		return "", fmt.Errorf("failed to verify task: %w", err)
	}
	if !moved {
		t.logger.Infof("ConfirmUpload - task %s already processed (status %s)", task.TaskID, task.Status)
		return "task already processed", nil
	}

	job := &models.TranscodeJob{
		TaskID:   task.TaskID.String(),
		InputKey: task.VideoURL,
	}
	if err = t.redisRepo.EnqueueJob(ctx, t.cfg.Redis.JobQueueKey, job); err != nil {
		t.logger.Errorf("ConfirmUpload - EnqueueJob: %v", err)
		return "", fmt.Errorf("failed to enqueue transcode job: %w", err)
	}
	t.logger.Infof("ConfirmUpload - task %s verified, job enqueued", task.TaskID)
	return "task verified", nil
}
