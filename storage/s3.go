package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// S3Storage keeps evidence images in an S3-compatible bucket.
type S3Storage struct {
	client *minio.Client
	bucket string
}

// NewS3Storage connects and verifies the bucket exists; the bucket is
// created out-of-band.
func NewS3Storage(ctx context.Context, config S3Config) (*S3Storage, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, config.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist: create it before starting the server", config.BucketName)
	}

	return &S3Storage{client: client, bucket: config.BucketName}, nil
}

func (s *S3Storage) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return classifyStorageError(err, "upload evidence")
	}
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return classifyStorageError(err, "delete evidence")
	}
	return nil
}

func classifyStorageError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		switch minioErr.Code {
		case "NoSuchKey", "NoSuchBucket":
			return fmt.Errorf("%s: %w", operation, ErrObjectNotFound)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%s: %w", operation, ErrAccessDenied)
		}
	}

	msg := err.Error()
	for _, s := range []string{"connection", "timeout", "network", "dial", "refused"} {
		if strings.Contains(msg, s) {
			return fmt.Errorf("%s network issue: %w", operation, ErrNetworkError)
		}
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}
