package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/internal/tasks"
)

type taskRedisRepo struct {
	redisClient *redis.Client
}

func NewTaskRedisRepo(redisClient *redis.Client) tasks.RedisRepository {
	return &taskRedisRepo{
		redisClient: redisClient,
	}
}

func (t *taskRedisRepo) EnqueueJob(ctx context.Context, key string, job *models.TranscodeJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := t.redisClient.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

func (t *taskRedisRepo) DequeueJob(ctx context.Context, key string) (*models.TranscodeJob, error) {
	res, err := t.redisClient.BRPop(ctx, 0, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}
	job := &models.TranscodeJob{}
	if err = json.Unmarshal([]byte(res[1]), job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return job, nil
}
