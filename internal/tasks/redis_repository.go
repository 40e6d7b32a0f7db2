package tasks

import (
	"context"

	"github.com/watchroom/watchroom/internal/models"
)

// RedisRepository is the durable job queue between intake and workers.
// Delivery is at-least-once: DequeueJob removes the entry, and a worker
// that dies mid-job relies on idempotent status writes rather than redelivery.
type RedisRepository interface {
	EnqueueJob(ctx context.Context, key string, job *models.TranscodeJob) error
	DequeueJob(ctx context.Context, key string) (*models.TranscodeJob, error)
}
