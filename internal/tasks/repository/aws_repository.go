package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/watchroom/watchroom/internal/models"
	"github.com/watchroom/watchroom/internal/tasks"
)

const (
	presignExpiry = 60 * time.Minute
	maxUploadSize = 100 * 1024 * 1024
)

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient) tasks.AWSRepository {
	return &awsRepository{
		client:        awsClient,
		preSignClient: preSignClient,
	}
}

func (a *awsRepository) GetPresignedPost(ctx context.Context, input *models.UploadInput) (*models.PresignedPost, error) {
	req, err := a.preSignClient.PresignPostObject(
		ctx,
		&s3.PutObjectInput{
			Bucket: &input.Bucket,
			Key:    &input.Key,
		},
		func(opts *s3.PresignPostOptions) {
			opts.Expires = presignExpiry
			opts.Conditions = []interface{}{
				[]interface{}{"content-length-range", 1, maxUploadSize},
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to presign post object: %w", err)
	}
	return &models.PresignedPost{
		URL:    req.URL,
		Fields: req.Values,
	}, nil
}

func (a *awsRepository) GetObject(ctx context.Context, bucket, key string) (*s3.GetObjectOutput, error) {
	res, err := a.client.GetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return res, nil
}

func (a *awsRepository) PutObject(ctx context.Context, input *models.UploadInput) error {
	_, err := a.client.PutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &input.Bucket,
			Key:           &input.Key,
			ContentType:   &input.ContentType,
			ContentLength: &input.Size,
			Body:          input.File,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

func (a *awsRepository) ListObjectsByPrefix(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: &bucket,
		Prefix: &prefix,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}

func (a *awsRepository) RemoveObject(ctx context.Context, bucket, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
