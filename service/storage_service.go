package service

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/abhijeet-gautam-07/rag-docs/config"
	"github.com/abhijeet-gautam-07/rag-docs/types"
)

// ObjectStorage reads and writes source documents in a blob store.
type ObjectStorage interface {
	// GetObjectReader streams an object. The returned size is the object's
	// content length in bytes; the caller closes the reader.
	GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error)

	// UploadFile stores an object.
	UploadFile(ctx context.Context, bucket, key string, body io.Reader, contentType string) error

	// ListKeys returns all object keys under the given prefix.
	ListKeys(ctx context.Context, bucket, prefix string) ([]string, error)
}

type s3Storage struct {
	client *s3.Client
	region string
}

// NewStorageService connects to S3 with static credentials from config.
func NewStorageService(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, &types.ConfigError{Field: "AWS_ACCESS_KEY_ID"}
	}
	if cfg.Region == "" {
		return nil, &types.ConfigError{Field: "storage.region"}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &s3Storage{
		client: s3.NewFromConfig(awsCfg),
		region: cfg.Region,
	}, nil
}

func (c *s3Storage) GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error) {
	resp, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("s3 get failed: %w", err)
	}
	var size int64
	if resp.ContentLength != nil {
		size = *resp.ContentLength
	}
	return resp.Body, size, nil
}

func (c *s3Storage) UploadFile(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	uploader := manager.NewUploader(c.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload failed: %w", err)
	}
	return nil
}

func (c *s3Storage) ListKeys(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list failed: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}
