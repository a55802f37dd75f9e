package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appConfig "github.com/Gelou69/Food-OrderomgHub/config"
)

// StorageInterface defines the object-storage operations the application
// needs: uploads into the primary bucket, and existence probes plus public
// URL construction across the configured bucket list.
type StorageInterface interface {
	// Buckets returns the configured bucket names in probe order.
	Buckets() []string

	// UploadFile uploads a file into the primary (first) bucket and returns
	// the storage key.
	UploadFile(fileHeader *multipart.FileHeader) (string, error)

	// KeyExists reports whether an object exists under the given bucket and
	// key. A missing object is (false, nil); only transport/permission
	// failures return an error.
	KeyExists(ctx context.Context, bucket, key string) (bool, error)

	// PublicURL returns the public address of an object. It does not check
	// existence.
	PublicURL(bucket, key string) string

	// DeleteFile removes an object from the primary bucket.
	DeleteFile(ctx context.Context, key string) error
}

// S3StorageService implements StorageInterface on AWS S3
type S3StorageService struct {
	client  *s3.Client
	buckets []string
	region  string
}

// NewS3StorageService builds the S3-backed storage service from application
// configuration
func NewS3StorageService(cfg *appConfig.Config) (*S3StorageService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	return &S3StorageService{
		client:  client,
		buckets: cfg.StorageBuckets,
		region:  cfg.AWSRegion,
	}, nil
}

// Buckets returns the configured bucket names in probe order
func (s *S3StorageService) Buckets() []string {
	return s.buckets
}

// UploadFile uploads a file to the primary bucket and returns the storage key
func (s *S3StorageService) UploadFile(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: failed to close file: %v", closeErr)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// Key format: products/{timestamp}_{filename}
	timestamp := time.Now().Unix()
	filename := filepath.Base(fileHeader.Filename)
	key := fmt.Sprintf("products/%d_%s", timestamp, filename)

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.buckets[0]),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}

// KeyExists probes a bucket for an object via HeadObject
func (s *S3StorageService) KeyExists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to probe s3://%s/%s: %w", bucket, key, err)
	}
	return true, nil
}

// PublicURL returns the virtual-hosted public address of an object
func (s *S3StorageService) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, key)
}

// DeleteFile deletes an object from the primary bucket
func (s *S3StorageService) DeleteFile(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.buckets[0]),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}
