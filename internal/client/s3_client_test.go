package client

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-task-api/internal/config"
	"project-task-api/internal/metrics"
)

func TestNewS3Client_Validation(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.S3Config
		errContains string
	}{
		{"실패: 버킷 없음", config.S3Config{Region: "ap-northeast-2"}, "bucket"},
		{"실패: 리전 없음", config.S3Config{Bucket: "b"}, "region"},
		{"실패: 엔드포인트에 자격증명 없음", config.S3Config{Bucket: "b", Region: "us-east-1", Endpoint: "http://localhost:9000"}, "access key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Client(context.Background(), tt.cfg, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func newStaticS3Client(t *testing.T, endpoint string, m *metrics.Metrics) *S3Client {
	t.Helper()
	c, err := NewS3Client(context.Background(), config.S3Config{
		Bucket:    "test-bucket",
		Region:    "ap-northeast-2",
		Endpoint:  endpoint,
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
	}, m)
	require.NoError(t, err)
	return c
}

func TestS3Client_GenerateFileKey(t *testing.T) {
	c := newStaticS3Client(t, "", nil)
	taskID := uuid.New()

	key := c.GenerateFileKey(taskID, ".png")

	pattern := regexp.MustCompile(`^tasks/` + taskID.String() + `/\d{4}/\d{2}/[0-9a-f-]{36}_\d+\.png$`)
	assert.Regexp(t, pattern, key)
	assert.NotEqual(t, key, c.GenerateFileKey(taskID, ".png"))
}

func TestS3Client_GeneratePresignedURL(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	c := newStaticS3Client(t, "http://localhost:9000", m)
	taskID := uuid.New()

	url, key, err := c.GeneratePresignedURL(context.Background(), taskID, "Design.PNG", "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "tasks/"+taskID.String()+"/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Contains(t, url, "localhost:9000/test-bucket/")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=300")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ExternalAPIRequestsTotal.WithLabelValues("s3/presign_put", "S3", "200")))
}

func TestGetFileURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		want     string
	}{
		{"성공: AWS", "", "https://test-bucket.s3.ap-northeast-2.amazonaws.com/tasks/a.png"},
		{"성공: MinIO", "http://localhost:9000/", "http://localhost:9000/test-bucket/tasks/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newStaticS3Client(t, tt.endpoint, nil)
			assert.Equal(t, tt.want, c.GetFileURL("tasks/a.png"))
		})
	}
}

func TestMockS3Client(t *testing.T) {
	m := NewMockS3Client()
	taskID := uuid.New()

	url, key, err := m.GeneratePresignedURL(context.Background(), taskID, "notes.txt", "text/plain")
	require.NoError(t, err)
	assert.Contains(t, url, key)
	assert.True(t, strings.HasSuffix(key, ".txt"))

	require.NoError(t, m.DeleteFile(context.Background(), key))
	assert.Equal(t, []string{key}, m.DeletedKeys())

	assert.True(t, strings.Contains(buildFileKey(taskID, ".md", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)), "/2024/01/"))
}
