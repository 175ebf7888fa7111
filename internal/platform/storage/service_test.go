package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"image-pipeline/internal/config"
)

func TestNewService_NilConfig(t *testing.T) {
	service, err := NewService(nil)
	assert.Error(t, err)
	assert.Nil(t, service)
}

func TestGenerateStoragePath(t *testing.T) {
	service := &Service{bucketName: "test-bucket"}

	path := service.generateStoragePath("abc123.png")

	parts := strings.Split(path, "/")
	assert.Len(t, parts, 3, "path should be sharded two levels deep")
	assert.Len(t, parts[0], 2)
	assert.Len(t, parts[1], 2)
	assert.Equal(t, "abc123.png", parts[2])
}

func TestGenerateStoragePath_Deterministic(t *testing.T) {
	service := &Service{bucketName: "test-bucket"}

	first := service.generateStoragePath("same-name.png")
	second := service.generateStoragePath("same-name.png")
	assert.Equal(t, first, second, "same name must map to the same path")

	other := service.generateStoragePath("other-name.png")
	assert.NotEqual(t, first, other)
}

func TestNewService_ValidConfig(t *testing.T) {
	cfg := &config.StorageConfig{
		Endpoint:        "localhost:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		BucketName:      "test-bucket",
		Region:          "us-east-1",
	}

	service, err := NewService(cfg)
	if err != nil {
		// Bucket creation needs a live MinIO endpoint; connectivity
		// coverage lives in the integration tests.
		t.Skipf("MinIO not available: %v", err)
	}
	assert.NotNil(t, service)
	assert.Equal(t, cfg.BucketName, service.bucketName)
}
