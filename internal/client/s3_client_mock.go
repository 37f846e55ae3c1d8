package client

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockS3Client implements S3ClientInterface without AWS credentials, for tests and local runs
type MockS3Client struct {
	Bucket   string
	Region   string
	Endpoint string

	// Optional function overrides for custom test behavior
	GeneratePresignedURLFunc func(ctx context.Context, taskID uuid.UUID, fileName, contentType string) (string, string, error)
	DeleteFileFunc           func(ctx context.Context, key string) error

	mu          sync.Mutex
	deletedKeys []string
}

// NewMockS3Client creates a new mock S3 client
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket: "test-bucket",
		Region: "ap-northeast-2",
	}
}

// GenerateFileKey generates a unique file key
func (m *MockS3Client) GenerateFileKey(taskID uuid.UUID, fileExt string) string {
	return buildFileKey(taskID, fileExt, time.Now().UTC())
}

// GeneratePresignedURL returns a URL shaped like a real presigned PUT
func (m *MockS3Client) GeneratePresignedURL(ctx context.Context, taskID uuid.UUID, fileName, contentType string) (string, string, error) {
	if m.GeneratePresignedURLFunc != nil {
		return m.GeneratePresignedURLFunc(ctx, taskID, fileName, contentType)
	}

	fileKey := m.GenerateFileKey(taskID, filepath.Ext(fileName))
	url := fmt.Sprintf("%s?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Expires=%d&X-Amz-Signature=mocksignature",
		m.GetFileURL(fileKey), int(PresignExpiry.Seconds()))
	return url, fileKey, nil
}

// DeleteFile records the key and succeeds unless overridden
func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	m.mu.Lock()
	m.deletedKeys = append(m.deletedKeys, key)
	m.mu.Unlock()
	return nil
}

// DeletedKeys returns the keys passed to DeleteFile
func (m *MockS3Client) DeletedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deletedKeys...)
}

// GetFileURL returns the download URL for a key
func (m *MockS3Client) GetFileURL(key string) string {
	return fileURL(m.Endpoint, m.Bucket, m.Region, key)
}

// Ensure MockS3Client implements S3ClientInterface
var _ S3ClientInterface = (*MockS3Client)(nil)
var _ S3ClientInterface = (*S3Client)(nil)
