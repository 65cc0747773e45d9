package storage

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bizdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validConfig() config.StorageConfig {
	return config.StorageConfig{
		Bucket:            "exports",
		AccessKey:         "test-key",
		SecretKey:         "test-secret",
		Endpoint:          "http://localhost:9000",
		UsePathStyle:      true,
		PresignExpiration: 10 * time.Minute,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("missing bucket", func(t *testing.T) {
		cfg := validConfig()
		cfg.Bucket = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.SecretKey = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key")
	})

	t.Run("valid config", func(t *testing.T) {
		s, err := NewS3ObjectStorage(validConfig())
		require.NoError(t, err)
		assert.Equal(t, "exports", s.Bucket())
		assert.Equal(t, 10*time.Minute, s.presignExpiration)
	})

	t.Run("default presign expiration", func(t *testing.T) {
		cfg := validConfig()
		cfg.PresignExpiration = 0
		s, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		useSSL   bool
		want     string
	}{
		{"empty means aws", "", false, ""},
		{"bare host without ssl", "localhost:9000", false, "http://localhost:9000"},
		{"bare host with ssl", "minio.internal", true, "https://minio.internal"},
		{"scheme kept", "https://s3.example.com", false, "https://s3.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeEndpoint(tt.endpoint, tt.useSSL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestS3ObjectStorage_GenerateDownloadURL(t *testing.T) {
	s, err := NewS3ObjectStorage(validConfig())
	require.NoError(t, err)

	_, _, err = s.GenerateDownloadURL(context.Background(), "", time.Minute)
	assert.ErrorIs(t, err, ErrKeyRequired)

	url, expiresAt, err := s.GenerateDownloadURL(context.Background(), "exports/u1/clients.xlsx", 0)
	require.NoError(t, err)
	assert.True(t, strings.Contains(url, "localhost:9000/exports/exports/u1/clients.xlsx"), url)
	assert.Contains(t, url, "X-Amz-Signature")
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)
}

func TestS3ObjectStorage_ValidationOnly(t *testing.T) {
	s, err := NewS3ObjectStorage(validConfig())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Upload(context.Background(), "", []byte("x"), "text/plain"), ErrKeyRequired)
	assert.ErrorIs(t, s.DeleteObject(context.Background(), ""), ErrKeyRequired)
}

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryObjectStorage()

	require.NoError(t, s.Upload(ctx, "a/b.txt", []byte("hello"), "text/plain"))
	obj, ok := s.Get("a/b.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", string(obj.Data))
	assert.Equal(t, "text/plain", obj.ContentType)

	url, _, err := s.GenerateDownloadURL(ctx, "a/b.txt", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://storage.local/a/b.txt?expires="))

	require.NoError(t, s.DeleteObject(ctx, "a/b.txt"))
	_, ok = s.Get("a/b.txt")
	assert.False(t, ok)
}

// S3_TEST_ENDPOINT points at a MinIO/RustFS instance for the round trip below
func TestIntegration_UploadAndDownload(t *testing.T) {
	endpoint := os.Getenv("S3_TEST_ENDPOINT")
	if endpoint == "" || testing.Short() {
		t.Skip("set S3_TEST_ENDPOINT to run against a live S3-compatible server")
	}
	cfg := validConfig()
	cfg.Endpoint = endpoint
	cfg.Bucket = "bizdesk-integration"
	cfg.AccessKey = os.Getenv("S3_TEST_ACCESS_KEY")
	cfg.SecretKey = os.Getenv("S3_TEST_SECRET_KEY")

	s, err := NewS3ObjectStorage(cfg, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.EnsureBucket(ctx))
	require.NoError(t, s.EnsureBucket(ctx))

	key := "integration/hello.txt"
	require.NoError(t, s.Upload(ctx, key, []byte("hello"), "text/plain"))
	url, _, err := s.GenerateDownloadURL(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	require.NoError(t, s.DeleteObject(ctx, key))
}
