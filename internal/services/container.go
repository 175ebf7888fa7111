// Package services wires the platform layers into the domain services
// the invocation executor runs against.
package services

import (
	"database/sql"
	"fmt"

	"image-pipeline/internal/config"
	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/observability"
	"image-pipeline/internal/platform/cache"
	"image-pipeline/internal/platform/storage"
	"image-pipeline/internal/safety"
	"image-pipeline/internal/watermark"
)

// Container holds all the application dependencies
type Container struct {
	config *config.Config
	db     *sql.DB
	logger *observability.Logger

	storageService *storage.Service
	cacheClient    *cache.RedisClient // nil when the cache is disabled

	imageRepository imgdomain.Repository
	imageService    imgdomain.Service

	safetyChecker    *safety.Checker    // nil when the NSFW checker is disabled
	watermarkEncoder *watermark.Encoder // nil when watermarking is disabled
}

// ContainerOptions carries the pre-built platform clients into the container
type ContainerOptions struct {
	Config         *config.Config
	DB             *sql.DB
	Logger         *observability.Logger
	StorageService *storage.Service
	CacheClient    *cache.RedisClient
	Repository     imgdomain.Repository
}

// NewContainer creates a new dependency injection container
func NewContainer(opts ContainerOptions) (*Container, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if opts.StorageService == nil {
		return nil, fmt.Errorf("storage service cannot be nil")
	}
	if opts.Repository == nil {
		return nil, fmt.Errorf("repository cannot be nil")
	}

	c := &Container{
		config:          opts.Config,
		db:              opts.DB,
		logger:          opts.Logger,
		storageService:  opts.StorageService,
		cacheClient:     opts.CacheClient,
		imageRepository: opts.Repository,
	}

	var recordCache imgdomain.RecordCache
	if c.cacheClient != nil {
		recordCache = c.cacheClient
	}

	c.imageService = NewImageService(c.imageRepository, c.storageService, recordCache, c.logger)

	if err := c.initSafety(); err != nil {
		return nil, err
	}
	c.initWatermark()

	return c, nil
}

func (c *Container) initSafety() error {
	if !c.config.Safety.Enabled {
		return nil
	}

	device := safety.ResolveDevice(c.config.Safety.Device)
	checker, err := safety.NewChecker(
		c.config.Safety.ModelPath,
		device,
		float32(c.config.Safety.Threshold),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize NSFW checker: %w", err)
	}

	c.safetyChecker = checker
	return nil
}

func (c *Container) initWatermark() {
	if !c.config.Watermark.Enabled {
		return
	}
	c.watermarkEncoder = watermark.NewEncoder()
}

// Getters for accessing services

func (c *Container) Config() *config.Config {
	return c.config
}

func (c *Container) DB() *sql.DB {
	return c.db
}

func (c *Container) Logger() *observability.Logger {
	return c.logger
}

func (c *Container) ImageRepository() imgdomain.Repository {
	return c.imageRepository
}

func (c *Container) ImageService() imgdomain.Service {
	return c.imageService
}

func (c *Container) StorageService() *storage.Service {
	return c.storageService
}

func (c *Container) CacheClient() *cache.RedisClient {
	return c.cacheClient
}

// SafetyChecker returns the NSFW checker, or nil when disabled
func (c *Container) SafetyChecker() *safety.Checker {
	return c.safetyChecker
}

// WatermarkEncoder returns the invisible watermark encoder, or nil when disabled
func (c *Container) WatermarkEncoder() *watermark.Encoder {
	return c.watermarkEncoder
}

// Close cleans up resources
func (c *Container) Close() error {
	if c.safetyChecker != nil {
		_ = c.safetyChecker.Close()
	}
	if c.cacheClient != nil {
		_ = c.cacheClient.Close()
	}
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
