package client

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"project-task-api/internal/config"
	"project-task-api/internal/metrics"
)

// PresignExpiry is how long an upload URL stays valid
const PresignExpiry = 5 * time.Minute

// S3ClientInterface defines the interface for attachment object storage
type S3ClientInterface interface {
	GenerateFileKey(taskID uuid.UUID, fileExt string) string
	GeneratePresignedURL(ctx context.Context, taskID uuid.UUID, fileName, contentType string) (string, string, error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
}

// S3Client wraps the AWS S3 client and implements S3ClientInterface
type S3Client struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	region        string
	endpoint      string // set when talking to MinIO or another S3-compatible store
	metrics       *metrics.Metrics
}

// NewS3Client creates a new S3 client
func NewS3Client(ctx context.Context, cfg config.S3Config, m *metrics.Metrics) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Endpoint != "" {
		// S3-compatible stores need explicit credentials
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("access key and secret key are required for a custom S3 endpoint")
		}
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      strings.TrimSuffix(cfg.Endpoint, "/"),
		metrics:       m,
	}, nil
}

// GenerateFileKey generates a unique object key
// Format: tasks/{taskId}/{year}/{month}/{uuid}_{timestamp}{ext}
func (c *S3Client) GenerateFileKey(taskID uuid.UUID, fileExt string) string {
	return buildFileKey(taskID, fileExt, time.Now().UTC())
}

// GeneratePresignedURL generates a PUT URL for uploading a file, valid for PresignExpiry.
// Returns the URL and the object key.
func (c *S3Client) GeneratePresignedURL(ctx context.Context, taskID uuid.UUID, fileName, contentType string) (string, string, error) {
	fileKey := c.GenerateFileKey(taskID, strings.ToLower(filepath.Ext(fileName)))

	start := time.Now()
	req, err := c.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(fileKey),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = PresignExpiry
	})
	c.record("s3/presign_put", start, err)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return req.URL, fileKey, nil
}

// DeleteFile deletes an object
func (c *S3Client) DeleteFile(ctx context.Context, key string) error {
	start := time.Now()
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	c.record("s3/delete_object", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// GetFileURL returns the download URL for a key
func (c *S3Client) GetFileURL(key string) string {
	return fileURL(c.endpoint, c.bucket, c.region, key)
}

func (c *S3Client) record(operation string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	status := 200
	if err != nil {
		status = 500
	}
	c.metrics.RecordExternalAPICall(operation, "S3", status, time.Since(start), err)
}

func buildFileKey(taskID uuid.UUID, fileExt string, now time.Time) string {
	return fmt.Sprintf("tasks/%s/%s/%s/%s_%d%s",
		taskID, now.Format("2006"), now.Format("01"), uuid.NewString(), now.Unix(), fileExt)
}

func fileURL(endpoint, bucket, region, key string) string {
	if endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", endpoint, bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
