// Package storage persists encoded image objects in S3-compatible
// object storage via MinIO.
package storage

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"image-pipeline/internal/config"
)

// ContentTypePNG is the only content type the pipeline writes. All
// derived images are encoded as PNG regardless of the input format.
const ContentTypePNG = "image/png"

// Service implements the domain ObjectStore interface
type Service struct {
	client     *minio.Client
	bucketName string
	config     *config.StorageConfig
}

// NewService creates a new storage service and ensures the bucket exists
func NewService(cfg *config.StorageConfig) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("storage config cannot be nil")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	service := &Service{
		client:     client,
		bucketName: cfg.BucketName,
		config:     cfg,
	}

	if err := service.ensureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return service, nil
}

// Store saves encoded image bytes under a hash-sharded path derived
// from the image name and returns the storage path
func (s *Service) Store(ctx context.Context, name string, contentType string, data io.Reader, size int64) (string, error) {
	if name == "" {
		return "", errors.New("image name cannot be empty")
	}
	if contentType == "" {
		return "", errors.New("content type cannot be empty")
	}
	if data == nil {
		return "", errors.New("data cannot be nil")
	}

	storagePath := s.generateStoragePath(name)

	info, err := s.client.PutObject(ctx, s.bucketName, storagePath, data, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"image-name": name,
			"stored-at":  time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	if info.Size == 0 {
		// Clean up failed upload
		_ = s.client.RemoveObject(ctx, s.bucketName, storagePath, minio.RemoveObjectOptions{})
		return "", errors.New("uploaded object has zero size")
	}

	return storagePath, nil
}

// Retrieve gets encoded image bytes from storage
func (s *Service) Retrieve(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}

	obj, err := s.client.GetObject(ctx, s.bucketName, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	// GetObject is lazy; Stat surfaces missing keys before the caller reads
	_, err = obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("object not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	return obj, nil
}

// Delete removes an object from storage
func (s *Service) Delete(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("path cannot be empty")
	}

	exists, err := s.Exists(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to check if object exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("object not found: %s", path)
	}

	err = s.client.RemoveObject(ctx, s.bucketName, path, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// Exists checks if an object exists in storage
func (s *Service) Exists(ctx context.Context, path string) (bool, error) {
	if path == "" {
		return false, errors.New("path cannot be empty")
	}

	_, err := s.client.StatObject(ctx, s.bucketName, path, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}

	return true, nil
}

// Health checks the health of the storage service
func (s *Service) Health(ctx context.Context) error {
	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		MaxKeys: 1,
	})

	select {
	case <-objectCh:
		return nil
	case <-time.After(5 * time.Second):
		return errors.New("storage health check timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{
			Region: s.config.Region,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// generateStoragePath shards objects into a two-level hash directory
// so buckets with many images avoid hot prefixes. Image names are
// unique, so the path is deterministic per name.
func (s *Service) generateStoragePath(name string) string {
	hash := sha256.Sum256([]byte(name))
	hashStr := fmt.Sprintf("%x", hash)

	return fmt.Sprintf("%s/%s/%s", hashStr[:2], hashStr[2:4], name)
}
