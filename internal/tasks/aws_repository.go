package tasks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/watchroom/watchroom/internal/models"
)

type AWSRepository interface {
	GetPresignedPost(ctx context.Context, input *models.UploadInput) (*models.PresignedPost, error)
	GetObject(ctx context.Context, bucket, key string) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, input *models.UploadInput) error
	ListObjectsByPrefix(ctx context.Context, bucket, prefix string) ([]string, error)
	RemoveObject(ctx context.Context, bucket, key string) error
}
